package main

import (
	"context"
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/spf13/cobra"

	"github.com/leofalp/airecover/core/diagram"
	"github.com/leofalp/airecover/providers/observability"
)

func (a *app) markdownCmd() *cobra.Command {
	var (
		fromHTML bool
		jobs     int
	)

	cmd := &cobra.Command{
		Use:   "markdown [files...]",
		Short: "Normalize every mermaid block inside markdown documents",
		Long: `Rewrite each markdown document with every fenced mermaid block normalized.
All other text is left as it is. With --html the input is HTML and is converted
to markdown first.`,
		Example: `  airecover markdown README.md
  airecover markdown --html page.html > page.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.processInputs(cmd, args, jobs, func(ctx context.Context, in input) (result, error) {
				doc, err := a.renderMarkdown(ctx, in, fromHTML)
				if err != nil {
					return result{}, err
				}
				return result{output: doc}, nil
			})
			if err != nil {
				return err
			}
			return writeResults(cmd, results, "\n")
		},
	}

	cmd.Flags().BoolVar(&fromHTML, "html", false, "convert HTML input to markdown first")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "inputs processed at once (default GOMAXPROCS)")
	return cmd
}

func (a *app) renderMarkdown(ctx context.Context, in input, fromHTML bool) (string, error) {
	text := in.text
	if fromHTML {
		converted, err := htmltomarkdown.ConvertString(text)
		if err != nil {
			return "", fmt.Errorf("failed to convert %s from HTML: %w", in.source, err)
		}
		text = converted
		a.observer.Debug(ctx, "Converted HTML to markdown",
			observability.String(observability.AttrInputSource, in.source),
			observability.Bool(observability.AttrMarkdownConverted, true),
		)
	}

	doc := diagram.NormalizeMarkdown(text)
	if !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	return doc, nil
}
