package generate

import (
	"context"

	"github.com/leofalp/airecover/providers/observability"
)

// AnalyzeCode asks the model for a quality review of source. Scores are
// clamped to their documented ranges and missing lists come back empty.
func (g *Generator) AnalyzeCode(ctx context.Context, source string) (*Analysis, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	schema, err := schemaText[Analysis]()
	if err != nil {
		return nil, err
	}

	analysis, err := run[Analysis](ctx, g, call{
		kind:   kindAnalysis,
		span:   observability.SpanGenerateAnalysis,
		prompt: buildPrompt(analysisTask(), schema, source),
		attrs:  []observability.Attribute{observability.Int(observability.AttrSourceLength, len(source))},
	})
	if err != nil {
		return nil, err
	}
	analysis.normalize()
	return &analysis, nil
}
