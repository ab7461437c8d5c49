// Package quality implements the data-quality rules that run against a
// sampled table and the aggregation of their findings across tables.
package quality

import (
	"fmt"
	"strings"

	"github.com/alexanderjulianmartinez/dqc/internal/source"
	"github.com/alexanderjulianmartinez/dqc/pkg/types"
)

const DefaultEnumThreshold = 20

// Report is the outcome of checking one table.
type Report struct {
	types.TableResult
	Issues *IssueSet `json:"issues"`
}

type Engine struct {
	Policy MissingPolicy
	// A field whose distinct non-missing count is below EnumThreshold is
	// reported as an enum field.
	EnumThreshold int
	// SkipMissingInTypeChecks lets null cells pass type validation.
	SkipMissingInTypeChecks bool
}

func NewEngine() *Engine {
	return &Engine{
		Policy:        DefaultMissingPolicy(),
		EnumThreshold: DefaultEnumThreshold,
	}
}

// Check runs every rule against snap. It only fails when the snapshot is
// missing a column the table declares.
func (e *Engine) Check(snap *source.Snapshot, table source.TableSpec) (*Report, error) {
	columns := make(map[string][]any, len(table.Fields))
	for _, f := range table.Fields {
		col, ok := snap.Column(f.Name)
		if !ok {
			return nil, fmt.Errorf("table %s: snapshot has no column %q", table.Name, f.Name)
		}
		columns[f.Name] = col
	}
	for _, pk := range table.PrimaryKey {
		if _, ok := columns[pk]; !ok {
			return nil, fmt.Errorf("table %s: primary key %q is not a declared field", table.Name, pk)
		}
	}

	rows := snap.RowCount()
	report := &Report{
		TableResult: types.TableResult{
			Table:      table.Name,
			RowCount:   rows,
			PrimaryKey: table.PrimaryKey,
			Fields:     make([]types.FieldResult, 0, len(table.Fields)),
		},
		Issues: NewIssueSet(),
	}

	if len(table.PrimaryKey) > 0 {
		keyCols := make([][]any, len(table.PrimaryKey))
		for i, pk := range table.PrimaryKey {
			keyCols[i] = columns[pk]
		}
		report.DuplicateCount = countDuplicates(keyCols, rows)
		if report.DuplicateCount > 0 {
			report.Issues.Add(Duplicates, table.Name)
		}
	}

	for _, f := range table.Fields {
		values := columns[f.Name]
		fr := types.FieldResult{Name: f.Name, Type: f.Type.String()}

		fr.NullCount = e.Policy.Count(values)
		if rows > 0 {
			pct := float64(fr.NullCount) / float64(rows) * 100
			fr.NullPercent = &pct
		}
		if fr.NullCount > 0 {
			report.Issues.Add(NullValues, f.Name)
		}

		distinct := distinctValues(values)
		fr.DistinctCount = len(distinct)
		if len(distinct) < e.threshold() {
			fr.Enum = true
			fr.EnumValues = distinct
			report.Issues.Add(EnumValues, f.Name)
		}

		if c, msg, failed := e.validate(f.Type, values); failed {
			fr.TypeError = msg
			report.Issues.Add(c, f.Name)
		}

		report.Fields = append(report.Fields, fr)
	}
	return report, nil
}

func (e *Engine) threshold() int {
	if e.EnumThreshold <= 0 {
		return DefaultEnumThreshold
	}
	return e.EnumThreshold
}

// validate applies the rule for the declared type and returns the first
// failure found in the column.
func (e *Engine) validate(typ source.FieldType, values []any) (Category, string, bool) {
	switch typ {
	case source.TypeString:
		return 0, "", false
	case source.TypeDatetime:
		for i, v := range values {
			if blankDatetime(v) {
				continue
			}
			if err := parseDatetime(v); err != nil {
				return DatetimeErrors, fmt.Sprintf("datetime conversion failed at row %d: %v", i, err), true
			}
		}
		return 0, "", false
	case source.TypeBigint:
		for i, v := range values {
			if e.skip(v) {
				continue
			}
			if _, err := toInt64(v); err != nil {
				return BigintErrors, fmt.Sprintf("bigint conversion failed at row %d: %v", i, err), true
			}
		}
		return 0, "", false
	case source.TypeAmount:
		firstBad := -1
		var badValue int64
		for i, v := range values {
			if e.skip(v) {
				continue
			}
			n, err := toInt64(v)
			if err != nil {
				return AmountErrors, fmt.Sprintf("amount conversion failed at row %d: %v", i, err), true
			}
			if n <= 0 && firstBad < 0 {
				firstBad, badValue = i, n
			}
		}
		if firstBad >= 0 {
			return AmountErrors, fmt.Sprintf("amount must be greater than 0, row %d has %d", firstBad, badValue), true
		}
		return 0, "", false
	default:
		panic(fmt.Sprintf("quality: unhandled field type %v", typ))
	}
}

func (e *Engine) skip(v any) bool {
	return e.SkipMissingInTypeChecks && e.Policy.IsNull(v)
}

// blankDatetime reports cells that parse as an absent timestamp. They are
// counted by the null rule only.
func blankDatetime(v any) bool {
	if IsMarker(v) {
		return true
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return strings.TrimSpace(string(x)) == ""
	}
	return false
}

// countDuplicates counts rows whose key tuple already appeared earlier.
func countDuplicates(keyCols [][]any, rows int) int {
	seen := make(map[string]struct{}, rows)
	dups := 0
	parts := make([]string, len(keyCols))
	for r := 0; r < rows; r++ {
		for i, col := range keyCols {
			parts[i] = valueKey(col[r])
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// distinctValues returns the distinct non-missing values in first-seen order.
func distinctValues(values []any) []any {
	seen := map[string]struct{}{}
	out := []any{}
	for _, v := range values {
		if IsMarker(v) {
			continue
		}
		k := valueKey(v)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, displayValue(v))
	}
	return out
}
