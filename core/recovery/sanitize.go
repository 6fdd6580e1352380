package recovery

import (
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sanitationRule is one rewrite of the sanitation stage.
type sanitationRule struct {
	name  string
	apply func(string) string
}

// sanitationRules run in order, once per pass. Every rule after unicode-nfc
// scans the text with string literals in mind, so rewrites meant for JSON
// structure do not leak into string contents.
var sanitationRules = []sanitationRule{
	{name: "unicode-nfc", apply: normalizeUnicode},
	{name: "bom", apply: stripByteOrderMarks},
	{name: "smart-quotes", apply: straightenQuotes},
	{name: "control-chars", apply: stripControlChars},
	{name: "trailing-commas", apply: dropTrailingCommas},
}

func sanitize(text string) string {
	for _, rule := range sanitationRules {
		text = rule.apply(text)
	}
	return text
}

func normalizeUnicode(text string) string {
	normalized, _, err := transform.String(transform.Chain(norm.NFC), text)
	if err != nil {
		return text
	}
	return normalized
}

func stripByteOrderMarks(text string) string {
	return strings.ReplaceAll(text, "\uFEFF", "")
}

// isSmartQuote reports whether r is a typographic double quote that models
// emit in place of '"'.
func isSmartQuote(r rune) bool {
	switch r {
	case '“', '”', '„', '‟', '″':
		return true
	}
	return false
}

// straightenQuotes rewrites smart quotes that delimit strings to '"'. A
// string opened by a smart quote may be closed by either kind; smart quotes
// inside a string opened by '"' are content and stay.
func straightenQuotes(text string) string {
	if !strings.ContainsFunc(text, isSmartQuote) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	inString, escaped, smart := false, false, false
	for _, r := range text {
		switch {
		case inString && escaped:
			escaped = false
		case inString && r == '\\':
			escaped = true
		case inString && r == '"':
			inString = false
		case inString && smart && isSmartQuote(r):
			inString = false
			r = '"'
		case inString:
		case r == '"':
			inString, smart = true, false
		case isSmartQuote(r):
			inString, smart = true, true
			r = '"'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// literalScanner tracks whether a position in JSON-ish text lies inside a
// double-quoted string. Delimiting quotes count as inside.
type literalScanner struct {
	inString bool
	escaped  bool
}

// step advances over r and reports whether r belongs to a string literal.
func (s *literalScanner) step(r rune) bool {
	if s.inString {
		switch {
		case s.escaped:
			s.escaped = false
		case r == '\\':
			s.escaped = true
		case r == '"':
			s.inString = false
		}
		return true
	}
	if r == '"' {
		s.inString = true
		return true
	}
	return false
}

func isControl(r rune) bool {
	return r < 0x20 || (r >= 0x7F && r <= 0x9F)
}

// stripControlChars removes non-printable characters. Outside strings the
// layout whitespace \t \n \r survives; inside strings those three become
// escapes and everything else non-printable is dropped.
func stripControlChars(text string) string {
	if !strings.ContainsFunc(text, isControl) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	var scanner literalScanner
	for _, r := range text {
		inString := scanner.step(r)
		if !isControl(r) {
			b.WriteRune(r)
			continue
		}
		switch {
		case inString && r == '\n':
			b.WriteString(`\n`)
		case inString && r == '\r':
			b.WriteString(`\r`)
		case inString && r == '\t':
			b.WriteString(`\t`)
		case !inString && (r == '\n' || r == '\r' || r == '\t'):
			b.WriteRune(r)
		}
	}
	return b.String()
}

// dropTrailingCommas removes a comma that is followed, after optional
// whitespace, by '}' or ']'.
func dropTrailingCommas(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var scanner literalScanner
	for i, r := range text {
		inString := scanner.step(r)
		if !inString && r == ',' && closesAfterWhitespace(text[i+1:]) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func closesAfterWhitespace(rest string) bool {
	rest = strings.TrimLeft(rest, " \t\r\n")
	return rest != "" && (rest[0] == '}' || rest[0] == ']')
}
