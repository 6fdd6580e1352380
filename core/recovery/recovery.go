package recovery

import (
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/airecover/internal/utils"
)

// Recover extracts a structured value from raw model output.
//
// The text goes through fence stripping, boundary extraction, sanitation and
// balancing, then is parsed. A value cut off by a token limit loses only the
// member it was cut inside when that member had no value yet, so no key is
// ever invented. When the parse fails two fallbacks run against the
// sanitized text, cheapest first: each complete value span is re-extracted
// and parsed on its own (garbage between or after values), then the span is
// handed to jsonrepair for broader rewrites such as unquoted keys or
// single-quoted strings.
//
// The error, when non-nil, is always a *Failure:
//
//	v, err := recovery.Recover("```json\n{\"score\": 7,}\n```")
//	// v.Get("score") holds 7
//
//	_, err = recovery.Recover("no braces here at all")
//	// errors.Is(err, recovery.ErrBoundaryNotFound) == true
func Recover(text string) (Value, error) {
	if strings.TrimSpace(text) == "" {
		return Value{}, newFailure(StageInput, ErrEmptyInput, text, nil)
	}

	body := unwrap(text)
	span, truncated, ok := extractBoundary(body)
	if !ok {
		return Value{}, newFailure(StageBoundary, ErrBoundaryNotFound, body, nil)
	}

	sanitized := sanitize(span)
	complete := sanitized
	if truncated {
		complete = trimIncompleteMember(sanitized)
	}
	balanced := balance(complete)
	value, parseErr := decode(balanced)
	if parseErr == nil {
		return value, nil
	}

	for _, narrow := range valueSpans(sanitized) {
		candidate := balance(trimIncompleteMember(narrow))
		if candidate == balanced {
			continue
		}
		if value, err := decode(candidate); err == nil {
			return value, nil
		}
	}

	if repaired, err := jsonrepair.JSONRepair(complete); err == nil {
		if value, err := decode(repaired); err == nil {
			return value, nil
		}
	}

	return Value{}, newFailure(StageParse, ErrSyntaxUnrecoverable, balanced, parseErr)
}

// unwrap returns the part of text to search for a value. A fence wrapping
// the reply is stripped, unless the first fence line sits inside a string of
// a value opened before it, or stripping leaves no delimiter that text has.
func unwrap(text string) string {
	trimmed := strings.TrimSpace(text)
	fence := utils.FenceIndex(trimmed)
	if fence < 0 || insideString(trimmed, fence) {
		return trimmed
	}
	body := utils.StripFences(trimmed)
	if !strings.ContainsAny(body, "{[") && strings.ContainsAny(trimmed, "{[") {
		return trimmed
	}
	return body
}

// RecoverAs recovers a value from text and decodes it into T.
//
// When the direct decode fails, RecoverAs retries after unwrapping
// schema-style envelopes of the form {"type": ..., "value": ...}, which
// models produce when they confuse a JSON schema with the data it
// describes.
//
// Example:
//
//	type Review struct {
//	    Score int `json:"score"`
//	}
//	review, err := recovery.RecoverAs[Review]("Sure! {\"score\": 8}")
func RecoverAs[T any](text string) (T, error) {
	var result T

	value, err := Recover(text)
	if err != nil {
		return result, err
	}

	decodeErr := value.Decode(&result)
	if decodeErr == nil {
		return result, nil
	}

	var retry T
	if err := NewValue(unwrapSchemaValues(value.raw)).Decode(&retry); err == nil {
		return retry, nil
	}
	return result, fmt.Errorf("failed to decode recovered value as %T: %w", result, decodeErr)
}

// unwrapSchemaValues replaces every {"type": ..., "value": ...} object in the
// tree with its value.
func unwrapSchemaValues(raw any) any {
	switch node := raw.(type) {
	case map[string]any:
		if _, hasType := node["type"]; hasType && len(node) == 2 {
			if inner, hasValue := node["value"]; hasValue {
				return unwrapSchemaValues(inner)
			}
		}
		out := make(map[string]any, len(node))
		for key, member := range node {
			out[key] = unwrapSchemaValues(member)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, element := range node {
			out[i] = unwrapSchemaValues(element)
		}
		return out
	default:
		return raw
	}
}
