package model

import (
	"fmt"
	"strings"
)

// Workbook is an ordered collection of tables with unique names.
// It is built fresh by the ingestor or the exporter, consumed once and discarded.
type Workbook struct {
	tables     []*Table
	tableIndex map[string]int
}

// NewWorkbook creates an empty Workbook.
func NewWorkbook() *Workbook {
	return &Workbook{
		tableIndex: make(map[string]int),
	}
}

// AddTable appends a table. Table names must be non-empty and unique.
func (w *Workbook) AddTable(t *Table) error {
	if strings.TrimSpace(t.Name()) == "" {
		return fmt.Errorf("%w: table", ErrEmptyName)
	}
	if _, exists := w.tableIndex[t.Name()]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTableName, t.Name())
	}
	w.tableIndex[t.Name()] = len(w.tables)
	w.tables = append(w.tables, t)
	return nil
}

// Tables returns the tables in workbook order.
func (w *Workbook) Tables() []*Table {
	return w.tables
}

// Table returns the table with the given name.
func (w *Workbook) Table(name string) (*Table, bool) {
	i, ok := w.tableIndex[name]
	if !ok {
		return nil, false
	}
	return w.tables[i], true
}

// TableNames returns the table names in workbook order.
func (w *Workbook) TableNames() []string {
	names := make([]string, len(w.tables))
	for i, t := range w.tables {
		names[i] = t.Name()
	}
	return names
}
