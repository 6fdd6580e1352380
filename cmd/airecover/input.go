package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leofalp/airecover/providers/observability"
)

const stdinName = "-"

// errInputsFailed is returned when at least one input could not be
// recovered. Each failure has already been reported, so main only sets the
// exit code.
var errInputsFailed = errors.New("one or more inputs failed")

// input is one text to process.
type input struct {
	index  int
	source string // path, or "-" for stdin
	text   string
}

// result is the outcome for one input. A failed input produces no output;
// its message is printed to stderr instead.
type result struct {
	output  string
	failure string
}

// processFunc turns one input into output. A returned error is fatal and
// stops every other input; per-input failures are reported through result.
type processFunc func(ctx context.Context, in input) (result, error)

// processInputs runs fn over the inputs named by args with at most jobs
// running at once and returns the results in argument order.
func (a *app) processInputs(cmd *cobra.Command, args []string, jobs int, fn processFunc) ([]result, error) {
	if len(args) == 0 {
		args = []string{stdinName}
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	stdin, err := readStdinOnce(cmd, args)
	if err != nil {
		return nil, err
	}

	results := make([]result, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))

	for i, source := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			text := stdin
			if source != stdinName {
				data, err := os.ReadFile(source)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", source, err)
				}
				text = string(data)
			}

			a.observer.Debug(ctx, "Processing input",
				observability.String(observability.AttrInputSource, source),
				observability.Int(observability.AttrInputLength, len(text)),
			)

			res, err := fn(ctx, input{index: i, source: source, text: text})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// readStdinOnce reads stdin when args name it, so several "-" arguments
// share one read.
func readStdinOnce(cmd *cobra.Command, args []string) (string, error) {
	for _, arg := range args {
		if arg == stdinName {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return "", fmt.Errorf("failed to read stdin: %w", err)
			}
			return string(data), nil
		}
	}
	return "", nil
}

// writeResults prints every successful output in order, joined by sep, and
// every failure message to stderr. It reports errInputsFailed when any input
// failed.
func writeResults(cmd *cobra.Command, results []result, sep string) error {
	out := cmd.OutOrStdout()
	failed, written := false, 0
	for _, res := range results {
		if res.failure != "" {
			failed = true
			fmt.Fprintln(cmd.ErrOrStderr(), res.failure)
			continue
		}
		if written > 0 {
			if _, err := io.WriteString(out, sep); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, res.output); err != nil {
			return err
		}
		written++
	}
	if failed {
		return errInputsFailed
	}
	return nil
}
