// Package report renders per-table diagnostics and the run summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/alexanderjulianmartinez/dqc/internal/quality"
	"github.com/alexanderjulianmartinez/dqc/internal/source"
)

type Reporter interface {
	Table(r *quality.Report) error
	Summary(s quality.Summary) error
}

// New returns the reporter for an output format (text or json).
func New(format string, w io.Writer) (Reporter, error) {
	switch format {
	case "", "text":
		return &Text{w: w}, nil
	case "json":
		return &JSON{enc: json.NewEncoder(w)}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

type Text struct {
	w io.Writer
}

func (t *Text) Table(r *quality.Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\nChecking table: %s\n", r.Table)
	fmt.Fprintf(&b, "  rows: %d\n", r.RowCount)
	if len(r.PrimaryKey) > 0 {
		fmt.Fprintf(&b, "  primary key (%s) duplicate rows: %d\n", strings.Join(r.PrimaryKey, ", "), r.DuplicateCount)
	}
	for _, f := range r.Fields {
		if f.NullPercent != nil {
			fmt.Fprintf(&b, "  %s null ratio: %.2f%%\n", f.Name, *f.NullPercent)
		} else {
			fmt.Fprintf(&b, "  %s null ratio: n/a (no rows)\n", f.Name)
		}
		if f.Enum {
			fmt.Fprintf(&b, "  %s enum values: %s\n", f.Name, formatValues(f.EnumValues))
		}
		if f.TypeError != "" {
			fmt.Fprintf(&b, "  %s (%s): %s\n", f.Name, f.Type, f.TypeError)
		}
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Text) Summary(s quality.Summary) error {
	if _, err := fmt.Fprintf(t.w, "\n=== Summary ===\nTables checked: %d\n", s.Tables); err != nil {
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(t.w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Issue", "Description", "Count"})
	for _, c := range s.Categories {
		tw.AppendRow(table.Row{c.Category.String(), c.Category.Describe(), c.Count})
	}
	tw.Render()

	_, err := fmt.Fprintf(t.w, "\nMost common issue: %s, affecting %d fields or tables.\n", s.MostCommon, s.MostCommonCount)
	return err
}

func formatValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		if s, ok := v.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
		} else {
			parts[i] = fmt.Sprint(v)
		}
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// JSON writes one object per table followed by the summary object.
type JSON struct {
	enc *json.Encoder
}

type jsonRecord struct {
	Kind    string           `json:"kind"`
	Table   *quality.Report  `json:"table,omitempty"`
	Summary *quality.Summary `json:"summary,omitempty"`
}

func (j *JSON) Table(r *quality.Report) error {
	return j.enc.Encode(jsonRecord{Kind: "table", Table: r})
}

func (j *JSON) Summary(s quality.Summary) error {
	return j.enc.Encode(jsonRecord{Kind: "summary", Summary: &s})
}

// Dictionary renders the grouped data dictionary as a table.
func Dictionary(w io.Writer, tables []source.TableSpec) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Table", "Field", "Type", "PK"})
	for _, t := range tables {
		pk := map[string]bool{}
		for _, k := range t.PrimaryKey {
			pk[k] = true
		}
		for _, f := range t.Fields {
			mark := ""
			if pk[f.Name] {
				mark = "yes"
			}
			tw.AppendRow(table.Row{t.Name, f.Name, f.Type.String(), mark})
		}
		tw.AppendSeparator()
	}
	tw.Render()
	_, _ = fmt.Fprintf(w, "(%d tables)\n", len(tables))
}
