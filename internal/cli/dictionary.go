package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/dqc/internal/report"
	"github.com/alexanderjulianmartinez/dqc/internal/runner"
)

func NewDictionaryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary",
		Short: "Show the tables, fields and primary keys the dictionary describes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log, cmd.ErrOrStderr())

			d, err := newDeps(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer d.Close()

			tables, err := runner.New(d.dictionary, d.samples, d.engine, nil, logger).Tables(cmd.Context())
			if err != nil {
				return err
			}
			report.Dictionary(cmd.OutOrStdout(), tables)
			return nil
		},
	}
	addSourceFlags(cmd)
	return cmd
}
