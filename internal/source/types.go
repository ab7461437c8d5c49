package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTableNotFound = errors.New("table not found")
	ErrNoSamples     = errors.New("no sample provider could serve the table")
)

// FieldType is the declared type tag of a dictionary field.
type FieldType int

const (
	TypeString FieldType = iota
	TypeBigint
	TypeDatetime
	TypeAmount
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBigint:
		return "bigint"
	case TypeDatetime:
		return "datetime"
	case TypeAmount:
		return "amount"
	default:
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
}

// ParseFieldType maps a dictionary type tag to a FieldType.
func ParseFieldType(tag string) (FieldType, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "string":
		return TypeString, nil
	case "bigint":
		return TypeBigint, nil
	case "datetime":
		return TypeDatetime, nil
	case "amount":
		return TypeAmount, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", tag)
	}
}

type FieldSpec struct {
	Name string
	Type FieldType
}

type TableSpec struct {
	Name       string
	Fields     []FieldSpec
	PrimaryKey []string
}

func (t TableSpec) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// DictionaryRow is one (table, field) entry as stored in the data dictionary.
type DictionaryRow struct {
	Table string `yaml:"table_name" json:"table_name"`
	Field string `yaml:"field" json:"field"`
	Type  string `yaml:"type" json:"type"`
	PK    int    `yaml:"pk" json:"pk"`
}

// Snapshot is a sampled table. A nil cell is the missing-value marker.
type Snapshot struct {
	Table   string
	Columns []string
	Rows    [][]any
}

func (s *Snapshot) RowCount() int {
	return len(s.Rows)
}

// Column returns the values of the named column in row order.
func (s *Snapshot) Column(name string) ([]any, bool) {
	idx := -1
	for i, c := range s.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(s.Rows))
	for r, row := range s.Rows {
		if idx < len(row) {
			out[r] = row[idx]
		}
	}
	return out, true
}

type DictionaryProvider interface {
	Dictionary(ctx context.Context) ([]DictionaryRow, error)
}

type SampleProvider interface {
	Name() string
	Sample(ctx context.Context, table TableSpec) (*Snapshot, error)
}
