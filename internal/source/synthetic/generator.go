// Package synthetic generates deterministic sample tables for dictionaries
// that have no real data behind them.
package synthetic

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderjulianmartinez/dqc/internal/source"
)

const (
	DefaultRows      = 10
	DatetimeLayout   = "2006-01-02 15:04:05"
	InvalidDateToken = "invalid_date"
)

type Generator struct {
	rows int
	now  func() time.Time
}

type Option func(*Generator)

func WithRows(n int) Option {
	return func(g *Generator) { g.rows = n }
}

func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func New(opts ...Option) *Generator {
	g := &Generator{rows: DefaultRows, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Name() string {
	return "synthetic"
}

func (g *Generator) Sample(_ context.Context, table source.TableSpec) (*source.Snapshot, error) {
	snap := &source.Snapshot{
		Table:   table.Name,
		Columns: table.FieldNames(),
		Rows:    make([][]any, g.rows),
	}
	stamp := g.now().Format(DatetimeLayout)
	for i := range snap.Rows {
		row := make([]any, len(table.Fields))
		for j, f := range table.Fields {
			row[j] = value(f.Type, i, stamp)
		}
		snap.Rows[i] = row
	}
	return snap, nil
}

// value seeds every column with a few rows that the rule engine must flag:
// blank and "NULL" strings, negated integers and an unparseable date.
func value(typ source.FieldType, i int, stamp string) any {
	switch typ {
	case source.TypeString:
		if i%3 != 0 {
			return fmt.Sprintf("sample_%d", i)
		}
		if i%2 == 0 {
			return "NULL"
		}
		return ""
	case source.TypeBigint:
		if i%4 != 0 {
			return int64(i)
		}
		return int64(-i)
	case source.TypeDatetime:
		if i%5 != 0 {
			return stamp
		}
		return InvalidDateToken
	case source.TypeAmount:
		if i%3 != 0 {
			return int64(i * 100)
		}
		return int64(-i * 100)
	default:
		return nil
	}
}
