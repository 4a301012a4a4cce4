// Package commands implements the pvshift command tree.
package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// NewRootCmd builds a fresh pvshift command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "pvshift",
		Short: "Phase vocoder pitch shifter",
		Long: `pvshift - pitch-shift audio with a phase vocoder.

Each channel runs through its own vocoder engine. The time-stretched result
is resampled back to the input duration, so only pitch changes.

Settings may be stored in a YAML file passed with --config; flags given on
the command line take precedence over the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newShiftCmd(),
		newInfoCmd(),
		newAnalyzeCmd(),
		newTraceCmd(),
		newWindowsCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
