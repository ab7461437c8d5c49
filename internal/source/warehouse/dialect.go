package warehouse

import (
	"fmt"
	"strings"
)

type dialect struct {
	name   string
	driver string
	quote  func(string) string
	// existsQuery returns the table-existence query and its arguments.
	existsQuery func(schema, table string) (string, []any)
}

var dialects = map[string]dialect{
	"mysql": {
		name:   "mysql",
		driver: "mysql",
		quote:  backtick,
		existsQuery: func(schema, table string) (string, []any) {
			if schema == "" {
				return "SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?", []any{table}
			}
			return "SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?", []any{schema, table}
		},
	},
	"postgres": {
		name:   "postgres",
		driver: "pgx",
		quote:  doubleQuote,
		existsQuery: func(schema, table string) (string, []any) {
			if schema == "" {
				schema = "public"
			}
			return "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2", []any{schema, table}
		},
	},
	"sqlite": {
		name:   "sqlite",
		driver: "sqlite",
		quote:  doubleQuote,
		existsQuery: func(_, table string) (string, []any) {
			return "SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view') AND name = ?", []any{table}
		},
	},
}

func lookupDialect(name string) (dialect, error) {
	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported warehouse driver %q", name)
	}
	return d, nil
}

// Drivers lists the supported warehouse driver names.
func Drivers() []string {
	return []string{"mysql", "postgres", "sqlite"}
}

func backtick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func doubleQuote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// qualified quotes each dot-separated part of a possibly schema-qualified name.
func (d dialect) qualified(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = d.quote(p)
	}
	return strings.Join(parts, ".")
}
