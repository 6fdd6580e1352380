package recovery

import (
	"strings"
	"unicode"
)

// balance appends the closers a truncated text is missing, innermost first.
// A text cut off inside a string literal gets its closing quote before any
// bracket. Existing characters are never removed or reordered; a stray or
// mismatched closer is left for the parser to reject.
func balance(text string) string {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}

	if !inString && len(stack) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(stack) + 2)
	b.WriteString(text)
	if inString {
		if escaped {
			// A dangling backslash would escape the closing quote.
			b.WriteByte('\\')
		}
		b.WriteByte('"')
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// trimIncompleteMember drops the tail of a truncated text that cannot become
// part of any value the model wrote: a dangling comma, or an object member
// cut off before its value began ({"a": 1, "b  or  {"a": 1, "b":). A string
// value cut off midway is kept for balance to close.
func trimIncompleteMember(text string) string {
	type frame struct {
		object bool
		cut    int // start of the unfinished member: its comma, or just past the opener
		key    bool
		colon  int
	}
	var (
		stack    []frame
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, frame{object: true, cut: i + 1, key: true})
		case '[':
			stack = append(stack, frame{cut: i + 1})
		case '}', ']':
			if n := len(stack); n > 0 {
				stack = stack[:n-1]
			}
		case ',':
			if n := len(stack); n > 0 {
				top := &stack[n-1]
				top.cut, top.key = i, top.object
			}
		case ':':
			if n := len(stack); n > 0 && stack[n-1].object {
				stack[n-1].key, stack[n-1].colon = false, i
			}
		}
	}
	if len(stack) == 0 {
		return text
	}

	top := stack[len(stack)-1]
	switch {
	case top.object && top.key,
		top.object && strings.TrimSpace(text[top.colon+1:]) == "",
		!top.object && strings.TrimSpace(strings.TrimPrefix(text[top.cut:], ",")) == "":
		return strings.TrimRightFunc(text[:top.cut], unicode.IsSpace)
	}
	return text
}
