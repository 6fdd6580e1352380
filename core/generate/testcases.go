package generate

import (
	"context"
	"strings"

	"github.com/leofalp/airecover/providers/observability"
)

// DefaultFramework is used when GenerateTestCases is given no framework.
const DefaultFramework = "go test"

// GenerateTestCases asks the model for test cases covering source, written
// for framework. The returned suite names framework when the model left it
// out, and untyped cases default to unit tests.
func (g *Generator) GenerateTestCases(ctx context.Context, source, framework string) (*TestSuite, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	framework = strings.TrimSpace(framework)
	if framework == "" {
		framework = DefaultFramework
	}
	schema, err := schemaText[TestSuite]()
	if err != nil {
		return nil, err
	}

	suite, err := run[TestSuite](ctx, g, call{
		kind:   kindTestCases,
		span:   observability.SpanGenerateTestCases,
		prompt: buildPrompt(testCasesTask(framework), schema, source),
		attrs: []observability.Attribute{
			observability.Int(observability.AttrSourceLength, len(source)),
			observability.String(observability.AttrGenerateFramework, framework),
		},
	})
	if err != nil {
		return nil, err
	}
	suite.normalize(framework)
	return &suite, nil
}
