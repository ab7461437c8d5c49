// Package warehouse reads the data dictionary and table samples from a SQL
// warehouse through database/sql.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/alexanderjulianmartinez/dqc/internal/source"
)

const (
	DefaultTimeout         = 5 * time.Second
	DefaultDictionaryTable = "data_dictionary"
	DefaultSampleRows      = 10
)

type Config struct {
	Driver          string
	DSN             string
	Schema          string
	DictionaryTable string
	SampleRows      int
	Timeout         time.Duration
}

type Warehouse struct {
	db              *sql.DB
	dialect         dialect
	schema          string
	dictionaryTable string
	sampleRows      int
	timeout         time.Duration
	logger          *slog.Logger
}

// Open connects to the warehouse and verifies the connection with a ping.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Warehouse, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}

	w, err := New(db, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping failed: %w", d.name, err)
	}
	return w, nil
}

// New wraps an existing connection pool.
func New(db *sql.DB, cfg Config, logger *slog.Logger) (*Warehouse, error) {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Warehouse{
		db:              db,
		dialect:         d,
		schema:          cfg.Schema,
		dictionaryTable: cfg.DictionaryTable,
		sampleRows:      cfg.SampleRows,
		timeout:         cfg.Timeout,
		logger:          logger,
	}
	if w.dictionaryTable == "" {
		w.dictionaryTable = DefaultDictionaryTable
	}
	if w.sampleRows <= 0 {
		w.sampleRows = DefaultSampleRows
	}
	if w.timeout <= 0 {
		w.timeout = DefaultTimeout
	}
	return w, nil
}

func (w *Warehouse) Close() error {
	return w.db.Close()
}

func (w *Warehouse) Name() string {
	return "warehouse"
}

func (w *Warehouse) dictionaryQuery() string {
	return fmt.Sprintf("SELECT table_name, field, type, pk FROM %s", w.dialect.qualified(w.dictionaryTable))
}

func (w *Warehouse) Dictionary(ctx context.Context) ([]source.DictionaryRow, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	rows, err := w.db.QueryContext(ctx, w.dictionaryQuery())
	if err != nil {
		return nil, fmt.Errorf("query dictionary table %s: %w", w.dictionaryTable, err)
	}
	defer rows.Close()

	var out []source.DictionaryRow
	for rows.Next() {
		var table, field, typ sql.NullString
		var pk sql.NullInt64
		if err := rows.Scan(&table, &field, &typ, &pk); err != nil {
			return nil, fmt.Errorf("scan dictionary row: %w", err)
		}
		out = append(out, source.DictionaryRow{
			Table: table.String,
			Field: field.String,
			Type:  typ.String,
			PK:    int(pk.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary table %s: %w", w.dictionaryTable, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("dictionary table %s is empty", w.dictionaryTable)
	}
	w.logger.Debug("dictionary loaded", "table", w.dictionaryTable, "rows", len(out))
	return out, nil
}

func (w *Warehouse) TableExists(ctx context.Context, table string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	schema, name := w.schema, table
	if i := strings.LastIndex(table, "."); i >= 0 {
		schema, name = table[:i], table[i+1:]
	}
	query, args := w.dialect.existsQuery(schema, name)
	var count int64
	if err := w.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("lookup table %s: %w", table, err)
	}
	return count > 0, nil
}

func (w *Warehouse) sampleQuery(table source.TableSpec) string {
	cols := make([]string, len(table.Fields))
	for i, f := range table.Fields {
		cols[i] = w.dialect.quote(f.Name)
	}
	name := table.Name
	if w.schema != "" && w.dialect.name != "sqlite" && !strings.Contains(name, ".") {
		name = w.schema + "." + name
	}
	return fmt.Sprintf("SELECT %s FROM %s LIMIT %d", strings.Join(cols, ", "), w.dialect.qualified(name), w.sampleRows)
}

// Sample reads up to the configured number of rows. Tables that do not
// exist in the warehouse yield source.ErrTableNotFound.
func (w *Warehouse) Sample(ctx context.Context, table source.TableSpec) (*source.Snapshot, error) {
	exists, err := w.TableExists(ctx, table.Name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", table.Name, source.ErrTableNotFound)
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	rows, err := w.db.QueryContext(ctx, w.sampleQuery(table))
	if err != nil {
		return nil, fmt.Errorf("sample %s: %w", table.Name, err)
	}
	defer rows.Close()

	snap := &source.Snapshot{Table: table.Name, Columns: table.FieldNames()}
	for rows.Next() {
		values := make([]any, len(table.Fields))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table.Name, err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		snap.Rows = append(snap.Rows, values)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("sample %s timed out after %s: %w", table.Name, w.timeout, err)
		}
		return nil, fmt.Errorf("sample %s: %w", table.Name, err)
	}
	return snap, nil
}
