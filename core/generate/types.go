package generate

import (
	"fmt"
	"strings"
)

// Analysis is a model's quality review of a piece of code.
type Analysis struct {
	QualityScore         float64  `json:"qualityScore" jsonschema:"description=Overall code quality from 0 to 10"`
	Strengths            []string `json:"strengths"`
	Weaknesses           []string `json:"weaknesses"`
	Recommendations      []string `json:"recommendations"`
	MaintainabilityIndex float64  `json:"maintainabilityIndex" jsonschema:"description=Maintainability index from 0 to 100"`
}

func (a *Analysis) normalize() {
	a.QualityScore = clamp(a.QualityScore, 0, 10)
	a.MaintainabilityIndex = clamp(a.MaintainabilityIndex, 0, 100)
	a.Strengths = nonNil(a.Strengths)
	a.Weaknesses = nonNil(a.Weaknesses)
	a.Recommendations = nonNil(a.Recommendations)
}

// TestType is the level a generated test case exercises.
type TestType string

const (
	TestTypeUnit        TestType = "unit"
	TestTypeIntegration TestType = "integration"
	TestTypeEdgeCase    TestType = "edge_case"
)

// TestCase is one generated test. Input and ExpectedOutput hold whatever JSON
// value the model produced.
type TestCase struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Input          any      `json:"input"`
	ExpectedOutput any      `json:"expectedOutput"`
	Type           TestType `json:"type" jsonschema:"enum=unit,enum=integration,enum=edge_case"`
}

// TestSuite is the set of test cases generated for one piece of code.
type TestSuite struct {
	TestCases []TestCase `json:"testCases"`
	Coverage  float64    `json:"coverage" jsonschema:"description=Estimated line coverage in percent, from 0 to 100"`
	Framework string     `json:"framework"`
}

func (s *TestSuite) normalize(framework string) {
	s.TestCases = nonNil(s.TestCases)
	s.Coverage = clamp(s.Coverage, 0, 100)
	if strings.TrimSpace(s.Framework) == "" {
		s.Framework = framework
	}
	for i := range s.TestCases {
		if s.TestCases[i].Type == "" {
			s.TestCases[i].Type = TestTypeUnit
		}
	}
}

// APIEntry documents one exported symbol.
type APIEntry struct {
	Name        string `json:"name"`
	Signature   string `json:"signature"`
	Description string `json:"description"`
}

// Documentation is generated reference material for a piece of code.
// Diagram is always a normalized diagram; Markdown is the full document with
// every embedded diagram normalized.
type Documentation struct {
	Overview string     `json:"overview"`
	Usage    string     `json:"usage"`
	API      []APIEntry `json:"api"`
	Diagram  string     `json:"diagram" jsonschema:"description=A mermaid diagram of the main components, starting with a header such as flowchart TD"`
	Markdown string     `json:"markdown,omitempty" jsonschema:"description=The whole document as markdown"`
}

// compose renders a markdown document from the structured fields.
func (d *Documentation) compose() string {
	var b strings.Builder
	b.WriteString("# Overview\n\n")
	b.WriteString(strings.TrimSpace(d.Overview))
	b.WriteString("\n")

	if usage := strings.TrimSpace(d.Usage); usage != "" {
		b.WriteString("\n## Usage\n\n")
		b.WriteString(usage)
		b.WriteString("\n")
	}

	if len(d.API) > 0 {
		b.WriteString("\n## API\n")
		for _, entry := range d.API {
			fmt.Fprintf(&b, "\n### %s\n\n", entry.Name)
			if entry.Signature != "" {
				fmt.Fprintf(&b, "```\n%s\n```\n\n", entry.Signature)
			}
			b.WriteString(strings.TrimSpace(entry.Description))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n## Diagram\n\n```mermaid\n")
	b.WriteString(d.Diagram)
	b.WriteString("\n```\n")
	return b.String()
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func nonNil[E any](s []E) []E {
	if s == nil {
		return []E{}
	}
	return s
}
