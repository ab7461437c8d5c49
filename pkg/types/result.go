package types

// FieldResult holds the diagnostics computed for one field of a table.
type FieldResult struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	NullCount     int      `json:"null_count"`
	NullPercent   *float64 `json:"null_percent"` // nil when the table has no rows
	DistinctCount int      `json:"distinct_count"`
	Enum          bool     `json:"enum"`
	EnumValues    []any    `json:"enum_values,omitempty"`
	TypeError     string   `json:"type_error,omitempty"`
}

// TableResult holds the diagnostics computed for one table.
type TableResult struct {
	Table          string        `json:"table"`
	RowCount       int           `json:"row_count"`
	PrimaryKey     []string      `json:"primary_key,omitempty"`
	DuplicateCount int           `json:"duplicate_count"`
	Fields         []FieldResult `json:"fields"`
}
