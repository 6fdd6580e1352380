package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leofalp/airecover/core/recovery"
	"github.com/leofalp/airecover/providers/observability"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// userFailureMessage is what the user sees for input that cannot be
// recovered; the details go to the log.
const userFailureMessage = "could not interpret AI response"

type jsonOptions struct {
	output string
	indent bool
	jobs   int
}

func (a *app) jsonCmd() *cobra.Command {
	opts := &jsonOptions{}

	cmd := &cobra.Command{
		Use:   "json [files...]",
		Short: "Recover a JSON value from each input",
		Long: `Recover the JSON value a model embedded in its answer and print it.

With several inputs the values are printed in argument order, one per line for
compact JSON and as separate documents for YAML. The command exits with status 1
when any input could not be recovered.`,
		Example: `  airecover json reply.txt
  airecover json --indent a.txt b.txt
  pbpaste | airecover json --output yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runJSON(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", outputJSON, "output format: json or yaml")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "inputs processed at once (default GOMAXPROCS)")
	return cmd
}

func (a *app) runJSON(cmd *cobra.Command, args []string, opts *jsonOptions) error {
	if opts.output != outputJSON && opts.output != outputYAML {
		return fmt.Errorf("invalid --output %q (want json or yaml)", opts.output)
	}

	results, err := a.processInputs(cmd, args, opts.jobs, func(ctx context.Context, in input) (result, error) {
		value, err := recovery.Recover(in.text)
		if err != nil {
			a.logFailure(ctx, in.source, err)
			return result{failure: in.source + ": " + userFailureMessage}, nil
		}
		a.observer.Counter(observability.MetricRecoveryCount).Add(ctx, 1,
			observability.String(observability.AttrStatus, "success"),
			observability.String(observability.AttrRecoveryValueKind, value.Kind().String()),
		)

		out, err := encodeValue(value, opts)
		if err != nil {
			return result{}, fmt.Errorf("failed to encode %s: %w", in.source, err)
		}
		return result{output: out}, nil
	})
	if err != nil {
		return err
	}

	sep := ""
	if opts.output == outputYAML {
		sep = "---\n"
	}
	return writeResults(cmd, results, sep)
}

// logFailure records the stage and excerpt of a recovery failure.
func (a *app) logFailure(ctx context.Context, source string, err error) {
	stage, excerpt := "", ""
	var failure *recovery.Failure
	if errors.As(err, &failure) {
		stage, excerpt = string(failure.Stage), failure.Excerpt
	}

	a.observer.Counter(observability.MetricRecoveryCount).Add(ctx, 1,
		observability.String(observability.AttrStatus, "error"),
		observability.String(observability.AttrRecoveryStage, stage),
	)
	a.observer.Error(ctx, "Recovery failed",
		observability.String(observability.AttrInputSource, source),
		observability.String(observability.AttrRecoveryStage, stage),
		observability.String(observability.AttrRecoveryExcerpt, excerpt),
		observability.Error(err),
	)
}

func encodeValue(value recovery.Value, opts *jsonOptions) (string, error) {
	if opts.output == outputYAML {
		data, err := yaml.Marshal(yamlTree(value.Interface()))
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// yamlTree replaces json.Number leaves with int64 or float64 so YAML prints
// them as numbers rather than quoted strings.
func yamlTree(raw any) any {
	switch node := raw.(type) {
	case json.Number:
		if i, err := node.Int64(); err == nil {
			return i
		}
		if f, err := node.Float64(); err == nil {
			return f
		}
		return node.String()
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, v := range node {
			out[k] = yamlTree(v)
		}
		return out
	case []any:
		out := make([]any, len(node))
		for i, v := range node {
			out[i] = yamlTree(v)
		}
		return out
	default:
		return raw
	}
}
