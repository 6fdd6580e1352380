package recovery

import "strings"

// extractBoundary slices text to the structured value it most likely holds.
// Objects are the primary target: the span runs from the first '{' to the
// last '}'. An array is chosen instead when it encloses that first object, or
// when the text has no object at all. If the value opened at the start of the
// span is never closed, the text was truncated and the span runs to the end
// of the text so balancing can finish it, and truncated is true. ok is false
// when no opener exists.
func extractBoundary(text string) (span string, truncated, ok bool) {
	open, closer := openerIndex(text)
	if open < 0 {
		return "", false, false
	}
	end := closingIndex(text, open)
	if end < 0 {
		return strings.TrimSpace(text[open:]), true, true
	}
	if last := strings.LastIndexByte(text, closer); last > end {
		end = last
	}
	return text[open : end+1], false, true
}

// openerIndex returns the index of the opener the value starts at and the
// closer that ends it, or -1.
func openerIndex(text string) (int, byte) {
	object := strings.IndexByte(text, '{')
	array := strings.IndexByte(text, '[')
	switch {
	case object < 0 && array < 0:
		return -1, 0
	case object < 0:
		return array, ']'
	case array < 0 || array > object:
		return object, '}'
	}
	// '[' comes first: it only wins when the object sits inside it.
	if end := closingIndex(text, array); end < 0 || end > object {
		return array, ']'
	}
	return object, '}'
}

// closingIndex returns the index of the delimiter that closes the value
// opened at text[open], or -1 when the text ends first. Delimiters inside
// string literals are ignored; both bracket kinds count toward depth.
func closingIndex(text string, open int) int {
	depth := 0
	inString, escaped := false, false
	for i := open; i < len(text); i++ {
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
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// maxCandidates bounds the spans the narrow re-extraction tries.
const maxCandidates = 16

// valueSpans returns the complete '{...}' and '[...]' spans of text in
// order, each starting after the previous one ends. When the last opener is
// never closed, its truncated tail is the final candidate.
func valueSpans(text string) []string {
	var spans []string
	for offset := 0; len(spans) < maxCandidates; {
		i := strings.IndexAny(text[offset:], "{[")
		if i < 0 {
			break
		}
		open := offset + i
		end := closingIndex(text, open)
		if end < 0 {
			spans = append(spans, text[open:])
			break
		}
		spans = append(spans, text[open:end+1])
		offset = end + 1
	}
	return spans
}

// insideString reports whether pos falls inside a string literal of a value
// opened before it, as a fence line written into a JSON string does. Quotes
// in prose outside any value are ignored.
func insideString(text string, pos int) bool {
	depth := 0
	inString, escaped := false, false
	for i := 0; i < pos && i < len(text); i++ {
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
			inString = depth > 0
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		}
	}
	return inString
}
