package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/dqc/internal/report"
	"github.com/alexanderjulianmartinez/dqc/internal/runner"
)

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("dictionary", "", "path to the YAML data dictionary")
	cmd.Flags().String("dictionary-src", "", "dictionary source (file|warehouse)")
	cmd.Flags().String("driver", "", "warehouse driver (mysql|postgres|sqlite)")
	cmd.Flags().String("dsn", "", "warehouse DSN")
	cmd.Flags().String("schema", "", "warehouse schema")
}

func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run data quality checks on every dictionary table",
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

			rep, err := report.New(cfg.Output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			_, err = runner.New(d.dictionary, d.samples, d.engine, rep, logger).Run(cmd.Context())
			return err
		},
	}
	addSourceFlags(cmd)
	cmd.Flags().StringSlice("sources", nil, "ordered sample sources (warehouse,cdc,synthetic)")
	cmd.Flags().Int("rows", 0, "rows sampled per table")
	return cmd
}
