package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leofalp/airecover/core/diagram"
	"github.com/leofalp/airecover/providers/observability"
)

func (a *app) diagramCmd() *cobra.Command {
	var jobs int

	cmd := &cobra.Command{
		Use:   "diagram [files...]",
		Short: "Normalize a mermaid diagram from each input",
		Long: `Normalize the mermaid diagram in each input so that it starts with a known
header and holds at least one statement. Input that cannot be normalized is
replaced by a small placeholder flowchart, so this command never fails on
content. Several outputs are separated by a blank line.`,
		Example: `  airecover diagram diagram.txt
  echo "A-->B" | airecover diagram`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.processInputs(cmd, args, jobs, func(ctx context.Context, in input) (result, error) {
				return result{output: a.normalizeDiagram(ctx, in) + "\n"}, nil
			})
			if err != nil {
				return err
			}
			return writeResults(cmd, results, "\n")
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "inputs processed at once (default GOMAXPROCS)")
	return cmd
}

func (a *app) normalizeDiagram(ctx context.Context, in input) string {
	normalized := diagram.Normalize(in.text)
	header, _, _ := strings.Cut(normalized, "\n")

	fallback := normalized == diagram.Fallback && strings.TrimSpace(in.text) != diagram.Fallback
	if fallback {
		a.observer.Counter(observability.MetricDiagramFallbackCount).Add(ctx, 1)
		a.observer.Warn(ctx, "Diagram replaced by fallback",
			observability.String(observability.AttrInputSource, in.source),
		)
	}
	a.observer.Debug(ctx, "Diagram normalized",
		observability.String(observability.AttrInputSource, in.source),
		observability.String(observability.AttrDiagramHeader, header),
		observability.Bool(observability.AttrDiagramFallback, fallback),
	)
	return normalized
}
