package diagram

import (
	"regexp"
	"strings"
)

// LineKind is the classification of one line of diagram text.
type LineKind int

const (
	LineHeader LineKind = iota
	LineEdge
	LineNode
	LineUnrecognized
)

func (k LineKind) String() string {
	switch k {
	case LineHeader:
		return "header"
	case LineEdge:
		return "edge"
	case LineNode:
		return "node"
	default:
		return "unrecognized"
	}
}

// Line is one line of a normalized diagram with the kind that decided its
// repair.
type Line struct {
	Kind LineKind
	Text string

	// gap records blank lines that preceded this one in the source.
	gap bool
}

var (
	// bareNodePattern matches "id", "id[label]", "id(label)" and "id{label}".
	bareNodePattern = regexp.MustCompile(`^[A-Za-z0-9_]+\s*(\[.*\]|\(.*\)|\{.*\})?;?$`)
	idUnsafe        = regexp.MustCompile(`[^A-Za-z0-9_]`)
	lineUnsafe      = regexp.MustCompile(`[^A-Za-z0-9_\s\[\](){}<>|=.-]`)
)

// classifyLine decides the kind of a trimmed body line. Duplicate headers
// inside the body classify as LineHeader so they can be dropped.
func classifyLine(line string) LineKind {
	if _, ok := matchHeader(line); ok {
		return LineHeader
	}
	if hasArrow(line) {
		return LineEdge
	}
	if bareNodePattern.MatchString(line) {
		return LineNode
	}
	return LineUnrecognized
}

// repairUnrecognized replaces every character outside the safe set with '_'
// and reports false when nothing but placeholders would be left.
func repairUnrecognized(line string) (string, bool) {
	repaired := lineUnsafe.ReplaceAllString(line, "_")
	if strings.Trim(repaired, "_ \t") == "" {
		return "", false
	}
	return repaired, true
}

// arrowAt returns the length of the arrow operator at the start of s, or 0.
// Recognised shapes: -->, ---, ==>, ===, -.->, -.-, <--> and longer runs of
// the same characters. A lone "--" also counts so "A -- text --> B" splits
// around its inline label.
func arrowAt(s string) int {
	i := 0
	if i < len(s) && s[i] == '<' {
		i++
	}
	start := i
	switch {
	case i < len(s) && s[i] == '=':
		for i < len(s) && s[i] == '=' {
			i++
		}
		if i-start < 2 {
			return 0
		}
	case i < len(s) && s[i] == '-':
		i++
		for i < len(s) && s[i] == '.' {
			i++
		}
		dotted := i > start+1
		for i < len(s) && s[i] == '-' {
			i++
		}
		if i-start < 2 || (dotted && s[i-1] != '-') {
			return 0
		}
	default:
		return 0
	}
	if i < len(s) && s[i] == '>' {
		i++
	}
	return i
}

func hasArrow(line string) bool {
	for _, seg := range splitStatement(line) {
		if seg.kind == segArrow {
			return true
		}
	}
	return false
}

type segmentKind int

const (
	segText segmentKind = iota
	segLabel
	segEdgeLabel
	segArrow
)

type segment struct {
	kind segmentKind
	text string
}

var labelClosers = map[byte]byte{'[': ']', '(': ')', '{': '}'}

// splitStatement cuts a graph statement into node text, bracketed labels,
// |edge labels| and arrows. Label contents are opaque: arrows or pipes inside
// them do not split the line.
func splitStatement(line string) []segment {
	var (
		segs []segment
		text strings.Builder
	)
	flush := func() {
		if text.Len() > 0 {
			segs = append(segs, segment{kind: segText, text: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(line); {
		c := line[i]
		if closer, ok := labelClosers[c]; ok {
			end := labelEnd(line, i, c, closer)
			flush()
			segs = append(segs, segment{kind: segLabel, text: line[i:end]})
			i = end
			continue
		}
		if c == '|' {
			end := len(line)
			if j := strings.IndexByte(line[i+1:], '|'); j >= 0 {
				end = i + 1 + j + 1
			}
			flush()
			segs = append(segs, segment{kind: segEdgeLabel, text: line[i:end]})
			i = end
			continue
		}
		if n := arrowAt(line[i:]); n > 0 {
			flush()
			segs = append(segs, segment{kind: segArrow, text: line[i : i+n]})
			i += n
			continue
		}
		text.WriteByte(c)
		i++
	}
	flush()
	return segs
}

// labelEnd returns the index just past the closer matching line[open],
// honouring nesting of the same bracket pair and double-quoted text. An
// unterminated label runs to the end of the line.
func labelEnd(line string, open int, opener, closer byte) int {
	depth := 0
	inQuote := false
	for i := open; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == opener:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(line)
}

// repairEdge rewrites an edge statement. Node identifiers are reduced to
// [A-Za-z0-9_]; labels, edge labels and inline edge text are kept byte for
// byte; every arrow gets exactly one space on each side. A trailing
// statement terminator is dropped.
func repairEdge(line string) string {
	line = strings.TrimRight(line, "; \t")
	var (
		b            strings.Builder
		pendingSpace bool
	)
	segs := splitStatement(line)
	for i, seg := range segs {
		switch seg.kind {
		case segText:
			ids := sanitizeIDs(seg.text)
			if i > 0 && isInlineLabelOpener(segs[i-1]) {
				ids = strings.TrimSpace(seg.text)
			}
			if ids == "" {
				continue
			}
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteString(ids)
		case segLabel:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteString(seg.text)
		case segEdgeLabel:
			b.WriteString(seg.text)
		case segArrow:
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(seg.text)
			pendingSpace = true
		}
	}
	return b.String()
}

// isInlineLabelOpener reports the open half of "A -- text --> B", after
// which the text is an edge label rather than a node id.
func isInlineLabelOpener(seg segment) bool {
	return seg.kind == segArrow && (seg.text == "--" || seg.text == "==")
}

// sanitizeIDs cleans the node text between labels and arrows. "A & B" lists
// several nodes; each keeps its own identifier.
func sanitizeIDs(text string) string {
	parts := strings.Split(text, "&")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, idUnsafe.ReplaceAllString(part, "_"))
	}
	return strings.Join(ids, " & ")
}
