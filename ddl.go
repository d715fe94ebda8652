package sheetdb

import (
	"fmt"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
)

// DDLGenerator renders CREATE, DROP and INSERT statements for tables.
// Output depends only on the table's name and fields, in field order.
type DDLGenerator struct {
	dialect Dialect
}

// NewDDLGenerator creates a generator for dialect.
func NewDDLGenerator(dialect Dialect) *DDLGenerator {
	return &DDLGenerator{dialect: dialect}
}

// Generate returns the CREATE TABLE statement for table.
//
//	CREATE TABLE "people" ("name" VARCHAR(255), "age" INT, "active" BOOLEAN)
func (g *DDLGenerator) Generate(table *model.Table) (string, error) {
	if err := g.validate(table); err != nil {
		return "", err
	}

	fields := table.Fields()
	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, g.dialect.QuoteIdentifier(field.Name())+" "+g.dialect.ColumnType(field.Type()))
	}

	return fmt.Sprintf(
		"CREATE TABLE %s (%s)",
		g.dialect.QuoteIdentifier(table.Name()),
		strings.Join(columns, ", "),
	), nil
}

// GenerateDrop returns the DROP TABLE IF EXISTS statement for table.
func (g *DDLGenerator) GenerateDrop(table *model.Table) string {
	return "DROP TABLE IF EXISTS " + g.dialect.QuoteIdentifier(table.Name())
}

// GenerateInsert returns a parameterized INSERT with one placeholder per field.
//
//	INSERT INTO "people" ("name", "age", "active") VALUES (?, ?, ?)
func (g *DDLGenerator) GenerateInsert(table *model.Table) (string, error) {
	if err := g.validate(table); err != nil {
		return "", err
	}

	fields := table.Fields()
	columns := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	for i, field := range fields {
		columns[i] = g.dialect.QuoteIdentifier(field.Name())
		placeholders[i] = g.dialect.Placeholder(i + 1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		g.dialect.QuoteIdentifier(table.Name()),
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	), nil
}

// validate rejects tables that have no DDL
func (g *DDLGenerator) validate(table *model.Table) error {
	if table == nil || strings.TrimSpace(table.Name()) == "" {
		return fmt.Errorf("%w: table name", ErrEmptyName)
	}
	fields := table.Fields()
	if len(fields) == 0 {
		return fmt.Errorf("%w: %s", ErrNoFields, table.Name())
	}
	for _, field := range fields {
		if strings.TrimSpace(field.Name()) == "" {
			return fmt.Errorf("%w: field of table %s", ErrEmptyName, table.Name())
		}
	}
	return nil
}
