package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderjulianmartinez/dqc/internal/cdc/debezium"
	"github.com/alexanderjulianmartinez/dqc/internal/config"
	"github.com/alexanderjulianmartinez/dqc/internal/quality"
	"github.com/alexanderjulianmartinez/dqc/internal/source"
	"github.com/alexanderjulianmartinez/dqc/internal/source/file"
	"github.com/alexanderjulianmartinez/dqc/internal/source/synthetic"
	"github.com/alexanderjulianmartinez/dqc/internal/source/warehouse"
)

// deps holds everything a command needs for one run.
type deps struct {
	cfg        *config.Config
	logger     *slog.Logger
	dictionary source.DictionaryProvider
	samples    source.SampleProvider
	engine     *quality.Engine
	closers    []func() error
}

func (d *deps) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			d.logger.Warn("close failed", "error", err)
		}
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newEngine(cfg config.RulesConfig) *quality.Engine {
	return &quality.Engine{
		Policy: quality.MissingPolicy{
			EmptyStringIsNull: cfg.Missing.EmptyString,
			LiteralNullIsNull: cfg.Missing.LiteralNull,
			CaseInsensitive:   cfg.Missing.CaseInsensitive,
		},
		EnumThreshold:           cfg.EnumThreshold,
		SkipMissingInTypeChecks: cfg.SkipMissingInTypeChecks,
	}
}

// newDeps wires providers from configuration. The warehouse connection is
// opened at most once and shared by the dictionary and sample providers.
func newDeps(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*deps, error) {
	d := &deps{cfg: cfg, logger: logger, engine: newEngine(cfg.Rules)}

	var wh *warehouse.Warehouse
	openWarehouse := func() (*warehouse.Warehouse, error) {
		if wh != nil {
			return wh, nil
		}
		w, err := warehouse.Open(ctx, warehouse.Config{
			Driver:          cfg.Warehouse.Driver,
			DSN:             cfg.Warehouse.DSN,
			Schema:          cfg.Warehouse.Schema,
			DictionaryTable: cfg.Dictionary.Table,
			SampleRows:      cfg.Samples.Rows,
			Timeout:         cfg.Warehouse.Timeout,
		}, logger.With("component", "warehouse"))
		if err != nil {
			return nil, err
		}
		wh = w
		d.closers = append(d.closers, w.Close)
		return wh, nil
	}

	switch cfg.Dictionary.Source {
	case config.DictionaryWarehouse:
		w, err := openWarehouse()
		if err != nil {
			d.Close()
			return nil, err
		}
		d.dictionary = w
	default:
		d.dictionary = file.NewDictionary(cfg.Dictionary.Path)
	}

	var providers []source.SampleProvider
	for _, name := range cfg.Samples.Sources {
		switch name {
		case config.SampleWarehouse:
			w, err := openWarehouse()
			if err != nil {
				d.Close()
				return nil, err
			}
			providers = append(providers, w)
		case config.SampleCDC:
			providers = append(providers, debezium.New(debezium.Config{
				Brokers:     cfg.CDC.Brokers,
				TopicPrefix: cfg.CDC.TopicPrefix,
				SampleRows:  cfg.Samples.Rows,
				Timeout:     cfg.CDC.Timeout,
			}, logger.With("component", "cdc")))
		case config.SampleSynthetic:
			providers = append(providers, synthetic.New(synthetic.WithRows(cfg.Samples.Rows)))
		default:
			d.Close()
			return nil, fmt.Errorf("unknown sample source %q", name)
		}
	}
	d.samples = source.NewChain(logger, providers...)
	return d, nil
}
