package sheetdb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
)

// Dialect describes how statements are spelled for one database family:
// identifier quoting, parameter placeholders, column types and the query
// listing base tables.
type Dialect struct {
	name        string
	quote       string
	numbered    bool
	typeNames   map[model.FieldType]string
	tablesQuery string
}

var (
	// GenericDialect uses double-quoted identifiers, "?" placeholders and
	// the information_schema catalog.
	GenericDialect = Dialect{
		name:  "generic",
		quote: `"`,
		tablesQuery: "SELECT table_name FROM information_schema.tables " +
			"WHERE table_type = 'BASE TABLE' ORDER BY table_name",
	}

	// SQLiteDialect is GenericDialect reading tables from sqlite_master.
	SQLiteDialect = Dialect{
		name:  "sqlite",
		quote: `"`,
		tablesQuery: "SELECT name FROM sqlite_master " +
			"WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name",
	}

	// MySQLDialect uses backtick-quoted identifiers.
	// MySQL commits DDL implicitly, so a failed load cannot undo dropped tables.
	MySQLDialect = Dialect{
		name:  "mysql",
		quote: "`",
		tablesQuery: "SELECT table_name FROM information_schema.tables " +
			"WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name",
	}

	// PostgresDialect uses numbered placeholders ($1, $2, ...) and DOUBLE PRECISION.
	PostgresDialect = Dialect{
		name:     "postgres",
		quote:    `"`,
		numbered: true,
		typeNames: map[model.FieldType]string{
			model.FieldTypeFloat: "DOUBLE PRECISION",
		},
		tablesQuery: "SELECT table_name FROM information_schema.tables " +
			"WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name",
	}
)

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driverName string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driverName)) {
	case "sqlite", "sqlite3":
		return SQLiteDialect, nil
	case "mysql":
		return MySQLDialect, nil
	case "pgx", "postgres", "postgresql":
		return PostgresDialect, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driverName)
	}
}

// Name returns the dialect name
func (d Dialect) Name() string {
	return d.name
}

// QuoteIdentifier wraps name in the dialect's identifier quotes.
// Embedded quote characters are not escaped.
func (d Dialect) QuoteIdentifier(name string) string {
	quote := d.quote
	if quote == "" {
		quote = `"`
	}
	return quote + name + quote
}

// Placeholder returns the parameter marker for the n-th (1-based) argument
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// ColumnType returns the SQL column type for ft
func (d Dialect) ColumnType(ft model.FieldType) string {
	if name, ok := d.typeNames[ft]; ok {
		return name
	}
	return ft.SQLType()
}

// TablesQuery returns the query listing base tables, one name per row, ordered by name
func (d Dialect) TablesQuery() string {
	if d.tablesQuery == "" {
		return GenericDialect.tablesQuery
	}
	return d.tablesQuery
}
