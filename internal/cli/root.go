// Package cli provides the dqc command-line interface.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var Version = "0.1.0"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dqc",
		Short: "dqc - data quality checks driven by a table dictionary",
		Long: `dqc reads a data dictionary, samples every table it describes and checks
row counts, primary-key uniqueness, null ratios, enum-like fields and
type rules, then prints a summary of the most common issue.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "config file (default: ./dqc.yaml if present)")
	root.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringP("output", "o", "", "output format (text|json)")
	_ = root.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(NewCheckCommand())
	root.AddCommand(NewDictionaryCommand())
	root.AddCommand(NewVersionCommand())
	return root
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
