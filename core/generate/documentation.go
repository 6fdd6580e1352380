package generate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/airecover/core/diagram"
	"github.com/leofalp/airecover/internal/utils"
	"github.com/leofalp/airecover/providers/observability"
)

// GenerateDocumentation asks the model for reference documentation of source.
//
// The returned Diagram is normalized and never empty. Markdown given as HTML
// is converted to markdown; when the model gave none it is composed from the
// other fields. Either way every mermaid block in it is normalized.
func (g *Generator) GenerateDocumentation(ctx context.Context, source string) (*Documentation, error) {
	if err := checkSource(source); err != nil {
		return nil, err
	}
	schema, err := schemaText[Documentation]()
	if err != nil {
		return nil, err
	}

	reply, err := run[documentationReply](ctx, g, call{
		kind:   kindDocumentation,
		span:   observability.SpanGenerateDocumentation,
		prompt: buildPrompt(documentationTask(), schema, source),
		attrs:  []observability.Attribute{observability.Int(observability.AttrSourceLength, len(source))},
	})
	if err != nil {
		return nil, err
	}

	doc := reply.Documentation
	g.finishDocumentation(ctx, &doc, reply.Diagram)
	return &doc, nil
}

// documentationReply is the decoded reply. Diagram shadows the embedded
// string field so a diagram of the wrong type falls back instead of failing
// the whole reply.
type documentationReply struct {
	Documentation
	Diagram any `json:"diagram"`
}

func (g *Generator) finishDocumentation(ctx context.Context, doc *Documentation, rawDiagram any) {
	observer := g.opts.observer

	doc.Diagram = diagram.NormalizeValue(rawDiagram)
	raw, _ := rawDiagram.(string)
	fallback := doc.Diagram == diagram.Fallback && strings.TrimSpace(raw) != diagram.Fallback
	if fallback {
		observer.Counter(observability.MetricDiagramFallbackCount).Add(ctx, 1,
			observability.String(observability.AttrGenerateKind, kindDocumentation),
		)
		observer.Warn(ctx, "Diagram replaced by fallback",
			observability.String(observability.AttrResponseContent, utils.TruncateStringDefault(fmt.Sprint(rawDiagram))),
		)
	}
	header, _, _ := strings.Cut(doc.Diagram, "\n")

	markdown := strings.TrimSpace(doc.Markdown)
	converted := false
	if looksLikeHTML(markdown) {
		md, err := htmltomarkdown.ConvertString(markdown)
		if err != nil {
			observer.Warn(ctx, "Could not convert HTML documentation, composing from fields",
				observability.Error(err),
			)
			markdown = ""
		} else {
			markdown, converted = md, true
		}
	}
	if markdown == "" {
		markdown = doc.compose()
	}
	doc.Markdown = diagram.NormalizeMarkdown(markdown)

	observer.Debug(ctx, "Documentation finished",
		observability.String(observability.AttrDiagramHeader, header),
		observability.Bool(observability.AttrDiagramFallback, fallback),
		observability.Bool(observability.AttrMarkdownConverted, converted),
	)
}

var closingTag = regexp.MustCompile(`</[a-zA-Z][a-zA-Z0-9]*\s*>`)

// looksLikeHTML reports whether text is an HTML fragment rather than
// markdown that happens to contain a tag.
func looksLikeHTML(text string) bool {
	return strings.HasPrefix(text, "<") && closingTag.MatchString(text)
}
