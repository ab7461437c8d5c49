package source

import (
	"fmt"
	"strings"
)

// GroupTables builds one TableSpec per distinct table name. Tables keep the
// order in which they first appear and fields keep dictionary order.
func GroupTables(rows []DictionaryRow) ([]TableSpec, error) {
	var tables []TableSpec
	index := map[string]int{}
	seen := map[string]map[string]bool{}

	for _, row := range rows {
		table := strings.TrimSpace(row.Table)
		field := strings.TrimSpace(row.Field)
		if table == "" {
			return nil, fmt.Errorf("dictionary row for field %q has no table_name", row.Field)
		}
		if field == "" {
			return nil, fmt.Errorf("table %s: dictionary row has no field name", table)
		}
		typ, err := ParseFieldType(row.Type)
		if err != nil {
			return nil, fmt.Errorf("table %s field %s: %w", table, field, err)
		}

		i, ok := index[table]
		if !ok {
			i = len(tables)
			index[table] = i
			tables = append(tables, TableSpec{Name: table})
			seen[table] = map[string]bool{}
		}
		if seen[table][field] {
			return nil, fmt.Errorf("table %s: field %s listed more than once", table, field)
		}
		seen[table][field] = true

		tables[i].Fields = append(tables[i].Fields, FieldSpec{Name: field, Type: typ})
		if row.PK == 1 {
			tables[i].PrimaryKey = append(tables[i].PrimaryKey, field)
		}
	}
	return tables, nil
}
