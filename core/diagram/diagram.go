package diagram

import (
	"slices"
	"strings"

	"github.com/leofalp/airecover/internal/utils"
)

// bodyIndent prefixes every statement of a graph diagram.
const bodyIndent = "    "

var fallbackLines, _ = classify(Fallback)

// Normalize returns diagram text a renderer can draw.
//
// The result always starts with one of [Headers] and holds at least one
// statement after the header. Input that cannot be repaired into that shape,
// the empty string included, yields [Fallback]. Only flowchart and graph
// bodies are classified and repaired line by line; the body lines of every
// other diagram type are kept as written, right-trimmed.
//
//	diagram.Normalize("A --> B")
//	// "flowchart TD\n    A --> B"
func Normalize(text string) string {
	return render(Classify(text))
}

// NormalizeValue normalizes a diagram held in a loosely typed field, such as
// a member of a recovered JSON object. Strings, *string and []byte are
// normalized; nil and every other type yield [Fallback].
func NormalizeValue(v any) string {
	switch s := v.(type) {
	case string:
		return Normalize(s)
	case *string:
		if s != nil {
			return Normalize(*s)
		}
	case []byte:
		return Normalize(string(s))
	}
	return Fallback
}

// Classify returns the lines [Normalize] would emit, each tagged with the kind
// that decided its repair. The first line is always the header. Blank
// separator lines are not reported.
func Classify(text string) []Line {
	lines, ok := classify(text)
	if !ok {
		return slices.Clone(fallbackLines)
	}
	return lines
}

// classify runs the line pipeline. ok is false when fewer than two lines
// survive.
func classify(text string) (lines []Line, ok bool) {
	body := utils.StripFences(text)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")

	raw := strings.Split(body, "\n")
	first := -1
	for i, l := range raw {
		if t := strings.TrimSpace(l); t != "" && !isComment(t) {
			first = i
			break
		}
	}
	if first < 0 {
		return nil, false
	}

	header, graph, inline, consumed := detectHeader(strings.TrimSpace(raw[first]))
	rest := raw[first:]
	if consumed {
		rest = append(inline, raw[first+1:]...)
	}

	lines = append(lines, Line{Kind: LineHeader, Text: header})
	gap := false
	for _, l := range rest {
		trimmed := strings.TrimSpace(l)
		if trimmed == "" {
			gap = len(lines) > 1
			continue
		}
		if isComment(trimmed) {
			continue
		}
		line, keep := repairLine(l, trimmed, graph)
		if !keep {
			continue
		}
		line.gap = gap
		gap = false
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return nil, false
	}
	return lines, true
}

// detectHeader decides the header for a diagram whose first line is line.
// consumed reports whether line was the header; inline holds statements that
// followed a graph header on the same line ("graph TD;A-->B;B-->C").
func detectHeader(line string) (header string, graph bool, inline []string, consumed bool) {
	if h, ok := matchHeader(line); ok {
		if !isGraphHeader(h) {
			return line, false, nil, true
		}
		for _, stmt := range strings.Split(line[len(h):], ";") {
			if stmt = strings.TrimSpace(stmt); stmt != "" {
				inline = append(inline, stmt)
			}
		}
		return h, true, inline, true
	}
	if h, ok := canonicalHeader(line); ok {
		return h, isGraphHeader(h), nil, true
	}
	return DefaultHeader, true, nil, false
}

// repairLine applies the repair chosen by the line's kind. Only graph
// diagrams are rewritten; other types keep their statements verbatim since
// their syntax is not node-and-edge.
func repairLine(raw, trimmed string, graph bool) (Line, bool) {
	kind := classifyLine(trimmed)
	if !graph {
		return Line{Kind: kind, Text: strings.TrimRight(raw, " \t")}, true
	}

	var text string
	switch kind {
	case LineHeader:
		return Line{}, false
	case LineEdge:
		text = repairEdge(trimmed)
	case LineNode:
		text = trimmed
	default:
		repaired, ok := repairUnrecognized(trimmed)
		if !ok {
			return Line{}, false
		}
		text = repaired
	}
	if text == "" {
		return Line{}, false
	}
	return Line{Kind: kind, Text: bodyIndent + text}, true
}

// isComment reports mermaid comments and %%{init}%% directives.
func isComment(line string) bool {
	return strings.HasPrefix(line, "%%")
}

func render(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
			if l.gap {
				b.WriteByte('\n')
			}
		}
		b.WriteString(l.Text)
	}
	return b.String()
}
