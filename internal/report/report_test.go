package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderjulianmartinez/dqc/internal/quality"
	"github.com/alexanderjulianmartinez/dqc/internal/source"
	"github.com/alexanderjulianmartinez/dqc/pkg/types"
)

func sampleReport() *quality.Report {
	pct := 25.0
	r := &quality.Report{
		TableResult: types.TableResult{
			Table:          "orders",
			RowCount:       4,
			PrimaryKey:     []string{"id"},
			DuplicateCount: 1,
			Fields: []types.FieldResult{
				{Name: "id", Type: "bigint", NullPercent: new(float64), Enum: true, EnumValues: []any{int64(1), int64(2)}},
				{Name: "note", Type: "string", NullCount: 1, NullPercent: &pct, Enum: true, EnumValues: []any{"a", ""}},
				{Name: "total", Type: "amount", NullPercent: new(float64), TypeError: "amount must be greater than 0, row 0 has -5"},
			},
		},
		Issues: quality.NewIssueSet(),
	}
	r.Issues.Add(quality.Duplicates, "orders")
	r.Issues.Add(quality.NullValues, "note")
	r.Issues.Add(quality.AmountErrors, "total")
	return r
}

func TestText_Table(t *testing.T) {
	var buf bytes.Buffer
	rep, err := New("text", &buf)
	require.NoError(t, err)
	require.NoError(t, rep.Table(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "Checking table: orders")
	assert.Contains(t, out, "rows: 4")
	assert.Contains(t, out, "primary key (id) duplicate rows: 1")
	assert.Contains(t, out, "note null ratio: 25.00%")
	assert.Contains(t, out, `note enum values: ["a" ""]`)
	assert.Contains(t, out, "id enum values: [1 2]")
	assert.Contains(t, out, "total (amount): amount must be greater than 0")
}

func TestText_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	rep, _ := New("text", &buf)
	require.NoError(t, rep.Table(&quality.Report{
		TableResult: types.TableResult{Table: "empty", Fields: []types.FieldResult{{Name: "a", Type: "string"}}},
		Issues:      quality.NewIssueSet(),
	}))
	assert.Contains(t, buf.String(), "a null ratio: n/a")
	assert.NotContains(t, buf.String(), "primary key")
}

func TestText_Summary(t *testing.T) {
	agg := quality.NewAggregator()
	agg.Add(sampleReport())
	var buf bytes.Buffer
	rep, _ := New("text", &buf)
	require.NoError(t, rep.Summary(agg.Summary()))

	out := buf.String()
	assert.Contains(t, out, "Tables checked: 1")
	assert.Contains(t, out, "amount_errors")
	assert.Contains(t, out, "Most common issue: null_values, affecting 1 fields or tables.")
}

func TestJSON(t *testing.T) {
	agg := quality.NewAggregator()
	r := sampleReport()
	agg.Add(r)

	var buf bytes.Buffer
	rep, err := New("json", &buf)
	require.NoError(t, err)
	require.NoError(t, rep.Table(r))
	require.NoError(t, rep.Summary(agg.Summary()))

	sc := bufio.NewScanner(strings.NewReader(buf.String()))
	var kinds []string
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		kinds = append(kinds, rec["kind"].(string))
	}
	assert.Equal(t, []string{"table", "summary"}, kinds)
	assert.Contains(t, buf.String(), `"duplicates":["orders"]`)
	assert.Contains(t, buf.String(), `"most_common":"null_values"`)
}

func TestJSON_InfiniteEnumValues(t *testing.T) {
	snap := &source.Snapshot{Table: "metrics", Columns: []string{"ratio"}, Rows: [][]any{{math.Inf(1)}, {math.Inf(-1)}, {0.5}}}
	r, err := quality.NewEngine().Check(snap, source.TableSpec{
		Name:   "metrics",
		Fields: []source.FieldSpec{{Name: "ratio", Type: source.TypeString}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	rep, err := New("json", &buf)
	require.NoError(t, err)
	require.NoError(t, rep.Table(r))
	assert.Contains(t, buf.String(), `"+Inf"`)
	assert.Contains(t, buf.String(), `"-Inf"`)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{})
	require.Error(t, err)
}

func TestDictionary(t *testing.T) {
	var buf bytes.Buffer
	Dictionary(&buf, []source.TableSpec{{
		Name:       "users",
		Fields:     []source.FieldSpec{{Name: "id", Type: source.TypeBigint}, {Name: "email", Type: source.TypeString}},
		PrimaryKey: []string{"id"},
	}})
	out := buf.String()
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "bigint")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "(1 tables)")
}
