package diagram

import (
	"slices"
	"strings"
)

// DefaultHeader is prepended to diagram text that has no recognised header.
const DefaultHeader = "flowchart TD"

// Fallback is returned when nothing drawable survives normalization.
const Fallback = "flowchart TD\n    A[Start] --> B[Process]\n    B --> C[End]"

// headers is the enumerated set of diagram types, matched case-sensitively
// as a line prefix.
var headers = []string{
	"flowchart TD", "flowchart LR", "flowchart TB", "flowchart RL",
	"graph TD", "graph LR", "graph TB", "graph RL",
	"sequenceDiagram", "classDiagram", "erDiagram", "gitgraph",
	"pie", "journey", "gantt", "mindmap", "timeline",
}

// headerAlias is the canonical spelling of a near-miss header keyword.
// Keywords that also read as ordinary words only count when they stand alone
// on the line.
type headerAlias struct {
	canonical string
	allowArgs bool
}

// headerAliases is keyed by the lower-cased first word of the line.
var headerAliases = map[string]headerAlias{
	"sequencediagram": {"sequenceDiagram", true},
	"classdiagram":    {"classDiagram", true},
	"erdiagram":       {"erDiagram", true},
	"gitgraph":        {"gitgraph", true},
	"pie":             {"pie", false},
	"journey":         {"journey", false},
	"gantt":           {"gantt", false},
	"mindmap":         {"mindmap", false},
	"timeline":        {"timeline", false},
}

var directions = []string{"TD", "LR", "TB", "RL"}

// Headers returns the recognised diagram headers.
func Headers() []string {
	return slices.Clone(headers)
}

// matchHeader reports the header line begins with. The header must end the
// line or be followed by whitespace or ';', so "pie1 --> B" is not a pie chart.
func matchHeader(line string) (string, bool) {
	for _, h := range headers {
		if !strings.HasPrefix(line, h) {
			continue
		}
		rest := line[len(h):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == ';' {
			return h, true
		}
	}
	return "", false
}

// canonicalHeader rewrites a header the model spelled loosely ("flowchart",
// "graph td", "gitGraph", "SequenceDiagram") to an enumerated one.
func canonicalHeader(line string) (string, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	keyword := strings.ToLower(strings.TrimSuffix(fields[0], ";"))

	if keyword == "flowchart" || keyword == "graph" {
		direction := directions[0]
		if len(fields) > 1 {
			want := strings.ToUpper(strings.TrimSuffix(fields[1], ";"))
			switch {
			case slices.Contains(directions, want):
				direction = want
			case want == "BT":
				direction = "TB"
			default:
				// "graph of the system" is prose, not a header.
				return "", false
			}
		}
		return keyword + " " + direction, true
	}

	alias, ok := headerAliases[keyword]
	if !ok || (len(fields) > 1 && !alias.allowArgs) {
		return "", false
	}
	return strings.Join(append([]string{alias.canonical}, fields[1:]...), " "), true
}

// isGraphHeader reports whether header introduces a node-and-edge diagram,
// the only kind whose statements are rewritten.
func isGraphHeader(header string) bool {
	return strings.HasPrefix(header, "flowchart") || strings.HasPrefix(header, "graph")
}
