package model

import (
	"fmt"
	"strings"
)

// Row is one data row, positionally aligned with the fields of its table.
// A nil element is SQL NULL.
type Row []any

// IsEmpty reports whether every value in the row is nil.
func (r Row) IsEmpty() bool {
	for _, v := range r {
		if v != nil {
			return false
		}
	}
	return true
}

// Table is one relational table's schema plus its in-memory rows.
// It is built by a single owner and must not be shared while being built.
type Table struct {
	name       string
	fields     []Field
	fieldIndex map[string]int
	rows       []Row
}

// NewTable creates an empty Table.
func NewTable(name string) *Table {
	return &Table{
		name:       name,
		fieldIndex: make(map[string]int),
	}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// AddField appends a field. Field names must be non-empty and unique.
func (t *Table) AddField(f Field) error {
	if strings.TrimSpace(f.Name()) == "" {
		return fmt.Errorf("%w: field in table %s", ErrEmptyName, t.name)
	}
	if _, exists := t.fieldIndex[f.Name()]; exists {
		return fmt.Errorf("%w: %s in table %s", ErrDuplicateFieldName, f.Name(), t.name)
	}
	t.fieldIndex[f.Name()] = len(t.fields)
	t.fields = append(t.fields, f)
	return nil
}

// Fields returns the fields in column order.
func (t *Table) Fields() []Field {
	return t.fields
}

// Field returns the field with the given name.
func (t *Table) Field(name string) (Field, bool) {
	i, ok := t.fieldIndex[name]
	if !ok {
		return Field{}, false
	}
	return t.fields[i], true
}

// FieldNames returns the field names in column order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name()
	}
	return names
}

// AddRow appends a row. Rows shorter than the field list are padded with nil.
// Values beyond the field list are kept as given so that the mismatch surfaces
// when the row is bound to an insert statement.
func (t *Table) AddRow(values ...any) {
	row := make(Row, max(len(values), len(t.fields)))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Rows returns the data rows in insertion order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Equal compares table name, fields and row count.
func (t *Table) Equal(t2 *Table) bool {
	if t.Name() != t2.Name() {
		return false
	}
	if len(t.fields) != len(t2.fields) {
		return false
	}
	for i, f := range t.fields {
		if !f.Equal(t2.fields[i]) {
			return false
		}
	}
	return len(t.rows) == len(t2.rows)
}
