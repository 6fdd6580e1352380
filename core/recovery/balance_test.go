package recovery

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBalance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already balanced",
			input: `{"a": [1, {"b": 2}]}`,
			want:  `{"a": [1, {"b": 2}]}`,
		},
		{
			name:  "closers appended innermost first",
			input: `{"a": [1, 2, {"b": 3`,
			want:  `{"a": [1, 2, {"b": 3}]}`,
		},
		{
			name:  "open string closed first",
			input: `{"a": ["xy`,
			want:  `{"a": ["xy"]}`,
		},
		{
			name:  "dangling escape",
			input: `{"a": "x\`,
			want:  `{"a": "x\\"}`,
		},
		{
			name:  "brackets inside strings ignored",
			input: `{"a": "{[", "b": [`,
			want:  `{"a": "{[", "b": []}`,
		},
		{
			name:  "stray closer left alone",
			input: `{"a": 1}}`,
			want:  `{"a": 1}}`,
		},
		{
			name:  "empty",
			input: ``,
			want:  ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := balance(tt.input)
			if got != tt.want {
				t.Errorf("balance() = %q, want %q", got, tt.want)
			}
			if !strings.HasPrefix(got, tt.input) {
				t.Errorf("balance() must only append, %q is not a prefix of %q", tt.input, got)
			}
		})
	}
}

func TestExtractBoundary(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          string
		wantTruncated bool
		wantOK        bool
	}{
		{
			name:   "prose around object",
			input:  `Result: {"a": 1} done`,
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "first to last brace",
			input:  `x {"a": 1} y {"b": 2} z`,
			want:   `{"a": 1} y {"b": 2}`,
			wantOK: true,
		},
		{
			name:          "truncated runs to end",
			input:         `Result: {"a": [1, 2`,
			want:          `{"a": [1, 2`,
			wantTruncated: true,
			wantOK:        true,
		},
		{
			name:          "truncated object after closed prose braces",
			input:         `{"a": {"b": 1}, "c": [`,
			want:          `{"a": {"b": 1}, "c": [`,
			wantTruncated: true,
			wantOK:        true,
		},
		{
			name:   "array enclosing objects",
			input:  `[{"a": 1}]`,
			want:   `[{"a": 1}]`,
			wantOK: true,
		},
		{
			name:   "mismatched closer",
			input:  `{"a": ]`,
			want:   `{"a": ]`,
			wantOK: true,
		},
		{
			name:   "nothing",
			input:  `plain words`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated, ok := extractBoundary(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("extractBoundary() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("extractBoundary() = %q, want %q", got, tt.want)
			}
			if truncated != tt.wantTruncated {
				t.Errorf("extractBoundary() truncated = %v, want %v", truncated, tt.wantTruncated)
			}
		})
	}
}

func TestTrimIncompleteMember(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"cut inside a key", `{"a": 1, "b`, `{"a": 1`},
		{"cut after a key", `{"a": 1, "b"`, `{"a": 1`},
		{"cut after a colon", `{"a": 1, "b": `, `{"a": 1`},
		{"cut at a comma in an object", `{"a": 1,`, `{"a": 1`},
		{"cut at a comma in an array", `{"a": [1, 2,`, `{"a": [1, 2`},
		{"cut inside the first key", `{"ab`, `{`},
		{"cut inside a nested key", `{"a": {"b`, `{"a": {`},
		{"string value kept", `{"a": "par`, `{"a": "par`},
		{"number value kept", `{"a": 12`, `{"a": 12`},
		{"string element kept", `["x", "y`, `["x", "y`},
		{"comma inside a string is content", `{"a": "x,`, `{"a": "x,`},
		{"complete text untouched", `{"a": 1}`, `{"a": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimIncompleteMember(tt.input); got != tt.want {
				t.Errorf("trimIncompleteMember(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValueSpans(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"none", "plain", nil},
		{"one", `x {"a": 1} y`, []string{`{"a": 1}`}},
		{"several", `{x} and then {"a":1} [2]`, []string{`{x}`, `{"a":1}`, `[2]`}},
		{"nested spans are not split", `{"a": {"b": 1}}`, []string{`{"a": {"b": 1}}`}},
		{"truncated tail last", `{x} {"a": [1`, []string{`{x}`, `{"a": [1`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, valueSpans(tt.input)); diff != "" {
				t.Errorf("valueSpans() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInsideString(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"fence inside a string value", "{\"md\": \"# Doc\n```mermaid", true},
		{"fence after a closed value", "{\"a\": 1}\n```json", false},
		{"fence after prose quotes", "He said \"hi\"\n```json", false},
		{"fence at the start", "```json\n{}", false},
		{"fence between members", "{\"a\": 1,\n```", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := strings.Index(tt.text, "```")
			if got := insideString(tt.text, pos); got != tt.want {
				t.Errorf("insideString() = %v, want %v", got, tt.want)
			}
		})
	}
}
