// Package cli provides the command-line interface for moxie.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/moxie-gw2/moxie/internal/cli/commands"
	"github.com/moxie-gw2/moxie/pkg/config"
	"github.com/moxie-gw2/moxie/pkg/logging"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	Verbose bool
	LogFile string
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "moxie",
		Short: "Grade Weaver combat encounters",
		Long: `Moxie reads a recorded combat encounter and produces a report card.

Each check grades one aspect of play from S (best) to D (worst):
  - auto_chains           abandoned auto-attack chains
  - wasted_time           idle time between casts and canceled casts
  - primordial_alignment  stance windows not covered by Fire/Fire
  - elements_of_rage      time the Elements of Rage buff was down

Every grade comes with the time windows that caused it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			file := opts.LogFile
			if file == "" {
				file = os.Getenv(config.EnvLogFile)
			}
			logger := logging.New(logging.Options{
				Verbose: opts.Verbose,
				File:    file,
				Out:     cmd.ErrOrStderr(),
			})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logger.WithContext(ctx))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output and debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Also write JSON logs to this rotating file (env "+config.EnvLogFile+")")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewIntervalsCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
