package utils

import "strings"

const fenceMarker = "```"

// StripFences unwraps the markdown code fence that wraps s and returns the
// fenced body, trimmed. The opening fence is the first fence at the start of
// a line, so prose may precede it; it may carry a language tag (```json,
// ```mermaid). The body ends at the last line holding nothing but a fence, so
// fenced blocks nested inside the body are kept whole. A missing closing
// fence is tolerated: model output cut off by a token limit keeps everything
// after the opening line. Text without a fence is returned trimmed and
// otherwise unchanged.
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	open := lineStartIndex(s, fenceMarker)
	if open < 0 {
		return s
	}
	rest := s[open+len(fenceMarker):]

	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		// Single-line fence such as ```{"a":1}```.
		return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), fenceMarker))
	}

	body := rest[nl+1:]
	if tag := strings.TrimSpace(rest[:nl]); !isFenceTag(tag) {
		// The "tag" is really content: ```{ "a": 1 ...
		body = rest
	}
	if end := closingFence(body); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// FenceTag returns the language tag of the first fence in s, lower-cased, or
// "" when s has no fence or the fence is untagged.
func FenceTag(s string) string {
	s = strings.TrimSpace(s)
	open := lineStartIndex(s, fenceMarker)
	if open < 0 {
		return ""
	}
	rest := s[open+len(fenceMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	tag := strings.TrimSpace(rest)
	if !isFenceTag(tag) {
		return ""
	}
	return strings.ToLower(tag)
}

// FenceIndex returns the index in s of the first fence that starts a line,
// or -1 when s holds none.
func FenceIndex(s string) int {
	return lineStartIndex(s, fenceMarker)
}

// closingFence returns the index of the last line of s holding nothing but a
// fence, or -1.
func closingFence(s string) int {
	for end := len(s); end >= 0; {
		start := strings.LastIndexByte(s[:end], '\n') + 1
		if strings.TrimSpace(s[start:end]) == fenceMarker {
			return start
		}
		end = start - 1
	}
	return -1
}

// lineStartIndex returns the index of the first occurrence of marker that is
// preceded only by spaces or tabs on its line, or -1.
func lineStartIndex(s, marker string) int {
	offset := 0
	for offset <= len(s) {
		i := strings.Index(s[offset:], marker)
		if i < 0 {
			return -1
		}
		i += offset
		lineStart := strings.LastIndexByte(s[:i], '\n') + 1
		if strings.TrimLeft(s[lineStart:i], " \t") == "" {
			return i
		}
		offset = i + len(marker)
	}
	return -1
}

func isFenceTag(tag string) bool {
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '+', r == '.':
		default:
			return false
		}
	}
	return true
}
