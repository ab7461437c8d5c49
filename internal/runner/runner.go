// Package runner drives a check run: it walks the dictionary, samples each
// table, applies the rules and reports the aggregate.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderjulianmartinez/dqc/internal/quality"
	"github.com/alexanderjulianmartinez/dqc/internal/report"
	"github.com/alexanderjulianmartinez/dqc/internal/source"
)

type Runner struct {
	dictionary source.DictionaryProvider
	samples    source.SampleProvider
	engine     *quality.Engine
	reporter   report.Reporter
	logger     *slog.Logger
}

func New(
	dictionary source.DictionaryProvider,
	samples source.SampleProvider,
	engine *quality.Engine,
	reporter report.Reporter,
	logger *slog.Logger,
) *Runner {
	if engine == nil {
		engine = quality.NewEngine()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		dictionary: dictionary,
		samples:    samples,
		engine:     engine,
		reporter:   reporter,
		logger:     logger,
	}
}

// Tables loads the dictionary and groups it into table specs.
func (r *Runner) Tables(ctx context.Context) ([]source.TableSpec, error) {
	rows, err := r.dictionary.Dictionary(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	tables, err := source.GroupTables(rows)
	if err != nil {
		return nil, fmt.Errorf("build table specs: %w", err)
	}
	return tables, nil
}

// Run checks every table in dictionary order. Any dictionary, sampling or
// reporting failure aborts the run before the summary is written.
func (r *Runner) Run(ctx context.Context) (quality.Summary, error) {
	start := time.Now()
	tables, err := r.Tables(ctx)
	if err != nil {
		return quality.Summary{}, err
	}
	r.logger.Info("dictionary loaded", "tables", len(tables))

	agg := quality.NewAggregator()
	for _, table := range tables {
		if err := ctx.Err(); err != nil {
			return quality.Summary{}, err
		}

		r.logger.Info("checking table", "table", table.Name, "fields", len(table.Fields))
		snap, err := r.samples.Sample(ctx, table)
		if err != nil {
			return quality.Summary{}, err
		}
		rep, err := r.engine.Check(snap, table)
		if err != nil {
			return quality.Summary{}, err
		}
		if err := r.reporter.Table(rep); err != nil {
			return quality.Summary{}, fmt.Errorf("report table %s: %w", table.Name, err)
		}
		agg.Add(rep)
	}

	summary := agg.Summary()
	if err := r.reporter.Summary(summary); err != nil {
		return quality.Summary{}, fmt.Errorf("report summary: %w", err)
	}
	r.logger.Info("check complete",
		"tables", summary.Tables,
		"most_common", summary.MostCommon.String(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return summary, nil
}
