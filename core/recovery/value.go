package recovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Kind identifies the type of a [Value].
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// Value is a recovered JSON tree. Objects are map[string]any, arrays []any and
// numbers json.Number, so integers keep their exact text. The zero Value is
// invalid; lookups that miss return an invalid Value rather than panicking.
type Value struct {
	raw   any
	valid bool
}

// NewValue wraps an already decoded JSON tree.
func NewValue(raw any) Value {
	return Value{raw: raw, valid: true}
}

// IsValid reports whether v holds a value (JSON null included).
func (v Value) IsValid() bool {
	return v.valid
}

// Kind returns the JSON type of v.
func (v Value) Kind() Kind {
	if !v.valid {
		return KindInvalid
	}
	switch v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number, float64, int, int64:
		return KindNumber
	case string:
		return KindString
	case []any:
		return KindArray
	case map[string]any:
		return KindObject
	default:
		return KindInvalid
	}
}

// Interface returns the underlying tree.
func (v Value) Interface() any {
	return v.raw
}

// Get returns the member key of an object.
func (v Value) Get(key string) Value {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return Value{}
	}
	member, ok := obj[key]
	if !ok {
		return Value{}
	}
	return NewValue(member)
}

// Index returns element i of an array.
func (v Value) Index(i int) Value {
	arr, ok := v.raw.([]any)
	if !ok || i < 0 || i >= len(arr) {
		return Value{}
	}
	return NewValue(arr[i])
}

// Len returns the number of elements of an array or members of an object.
func (v Value) Len() int {
	switch raw := v.raw.(type) {
	case []any:
		return len(raw)
	case map[string]any:
		return len(raw)
	}
	return 0
}

// Keys returns the member names of an object in sorted order.
func (v Value) Keys() []string {
	obj, ok := v.raw.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	s, ok := v.raw.(string)
	return s, ok
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	b, ok := v.raw.(bool)
	return b, ok
}

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, bool) {
	switch n := v.raw.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// AsInt returns the number held by v when it is an integer.
func (v Value) AsInt() (int64, bool) {
	switch n := v.raw.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case int:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

// Decode stores v into dst, which must be a pointer, using encoding/json
// rules.
func (v Value) Decode(dst any) error {
	if !v.valid {
		return errors.New("decode of invalid value")
	}
	data, err := json.Marshal(v.raw)
	if err != nil {
		return fmt.Errorf("failed to re-encode value: %w", err)
	}
	return json.Unmarshal(data, dst)
}

// MarshalJSON encodes v. An invalid Value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// String returns the compact JSON encoding of v.
func (v Value) String() string {
	data, err := json.Marshal(v.raw)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.Kind(), err)
	}
	return string(data)
}

var errTrailingData = errors.New("unexpected data after top-level value")

// decode parses text as exactly one JSON value.
func decode(text string) (Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errTrailingData
	}
	return NewValue(raw), nil
}
