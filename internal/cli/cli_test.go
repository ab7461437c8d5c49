package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDictionary = `fields:
  - {table_name: orders, field: order_id, type: bigint, pk: 1}
  - {table_name: orders, field: placed_at, type: datetime, pk: 0}
  - {table_name: orders, field: total, type: amount, pk: 0}
  - {table_name: customers, field: customer_id, type: bigint, pk: 1}
  - {table_name: customers, field: name, type: string, pk: 0}
`

func writeDictionary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dictionary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testDictionary), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dqc v"+Version+"\n", out)
}

func TestCheckCommand_Text(t *testing.T) {
	out, err := run(t, "check", "--dictionary", writeDictionary(t), "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "Checking table: orders")
	assert.Contains(t, out, "Checking table: customers")
	assert.Contains(t, out, "primary key (order_id) duplicate rows: 0")
	assert.Contains(t, out, "Tables checked: 2")
	assert.Contains(t, out, "Most common issue: enum_values, affecting 5 fields or tables.")
	assert.Less(t, bytes.Index([]byte(out), []byte("orders")), bytes.Index([]byte(out), []byte("customers")))
}

func TestCheckCommand_JSON(t *testing.T) {
	out, err := run(t, "check", "--dictionary", writeDictionary(t), "--rows", "4", "-o", "json", "--log-level", "error")
	require.NoError(t, err)

	var kinds []string
	var summary struct {
		Summary struct {
			Tables     int    `json:"tables"`
			MostCommon string `json:"most_common"`
		} `json:"summary"`
	}
	sc := bufio.NewScanner(bytes.NewBufferString(out))
	for sc.Scan() {
		var rec struct {
			Kind string `json:"kind"`
		}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec))
		kinds = append(kinds, rec.Kind)
		if rec.Kind == "summary" {
			require.NoError(t, json.Unmarshal(sc.Bytes(), &summary))
		}
	}
	assert.Equal(t, []string{"table", "table", "summary"}, kinds)
	assert.Equal(t, 2, summary.Summary.Tables)
	assert.Equal(t, "enum_values", summary.Summary.MostCommon)
}

func TestCheckCommand_MissingDictionary(t *testing.T) {
	out, err := run(t, "check", "--dictionary", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dictionary")
	assert.NotContains(t, out, "Summary")
}

func TestCheckCommand_InvalidConfig(t *testing.T) {
	_, err := run(t, "check", "--dictionary", writeDictionary(t), "--sources", "warehouse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warehouse.driver is required")
}

func TestDictionaryCommand(t *testing.T) {
	out, err := run(t, "dictionary", "--dictionary", writeDictionary(t))
	require.NoError(t, err)
	assert.Contains(t, out, "order_id")
	assert.Contains(t, out, "customer_id")
	assert.Contains(t, out, "(2 tables)")
}
