package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leofalp/airecover/providers/observability"
	"github.com/leofalp/airecover/providers/observability/slogobs"
)

var Version = "dev"

// app holds the state shared by every subcommand.
type app struct {
	logLevel  string
	logFormat string
	observer  *slogobs.Observer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "airecover",
		Short: "Recover JSON and diagrams from language-model output",
		Long: `airecover repairs the text a language model produced when it was asked for
JSON or for a mermaid diagram: markdown fences, surrounding prose, smart quotes,
trailing commas and truncated output are all handled.

Each subcommand reads the files given as arguments, or stdin when there are
none or when an argument is "-".`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default from AIRECOVER_LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: compact or json (default from AIRECOVER_LOG_FORMAT or compact)")

	root.AddCommand(a.jsonCmd())
	root.AddCommand(a.diagramCmd())
	root.AddCommand(a.markdownCmd())

	return root
}

// setup builds the observer. Flags override the environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slogobs.LevelFromEnv()
	if a.logLevel != "" {
		parsed, err := slogobs.ParseLevel(a.logLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		level = parsed
	}

	format := slogobs.FormatFromEnv()
	if a.logFormat != "" {
		parsed, err := slogobs.ParseFormat(a.logFormat)
		if err != nil {
			return fmt.Errorf("invalid --log-format: %w", err)
		}
		format = parsed
	}

	a.observer = slogobs.New(
		slogobs.WithLevel(level),
		slogobs.WithFormat(format),
		slogobs.WithOutput(cmd.ErrOrStderr()),
	)
	a.observer.Debug(cmd.Context(), "Logger ready",
		observability.String("level", slogobs.LevelString(level)),
		observability.String("format", format.String()),
	)
	return nil
}
