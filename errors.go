package sheetdb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
)

// Standard errors. Use errors.Is to match them.
var (
	// ErrSourceUnavailable indicates that a tabular source is missing or corrupt
	ErrSourceUnavailable = errors.New("sheetdb: source unavailable")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("sheetdb: unsupported file format")

	// ErrUnsupportedDriver indicates a database driver without a dialect
	ErrUnsupportedDriver = errors.New("sheetdb: unsupported database driver")

	// ErrNoFields indicates a table without fields, for which no DDL exists
	ErrNoFields = errors.New("sheetdb: table has no fields")

	// ErrEmptyName indicates a blank table or field name
	ErrEmptyName = model.ErrEmptyName

	// ErrDuplicateTable indicates two tables with the same name in one workbook
	ErrDuplicateTable = model.ErrDuplicateTableName

	// ErrDuplicateField indicates two fields with the same name in one table
	ErrDuplicateField = model.ErrDuplicateFieldName

	// ErrNilDatabase indicates that no database handle was injected
	ErrNilDatabase = errors.New("sheetdb: nil database handle")
)

// SchemaCreationError is returned when dropping or creating a table fails.
type SchemaCreationError struct {
	Table string
	Err   error
}

// Error implements error
func (e *SchemaCreationError) Error() string {
	return fmt.Sprintf("sheetdb: create table %s failed: %v", e.Table, e.Err)
}

// Unwrap returns the underlying cause
func (e *SchemaCreationError) Unwrap() error {
	return e.Err
}

// RowInsertionError is returned when inserting a row fails.
// Row is the zero-based index of the failing row within its table.
type RowInsertionError struct {
	Table string
	Row   int
	Err   error
}

// Error implements error
func (e *RowInsertionError) Error() string {
	return fmt.Sprintf("sheetdb: insert into %s failed at row %d: %v", e.Table, e.Row, e.Err)
}

// Unwrap returns the underlying cause
func (e *RowInsertionError) Unwrap() error {
	return e.Err
}

// LoadError is returned by Loader.Load after the transaction has been rolled back.
// It wraps a SchemaCreationError, a RowInsertionError or a transaction error.
type LoadError struct {
	Err error
}

// Error implements error
func (e *LoadError) Error() string {
	return fmt.Sprintf("sheetdb: load failed: %v", e.Err)
}

// Unwrap returns the underlying cause
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Table returns the name of the table whose creation or insertion failed,
// or an empty string when the failure was not tied to a table.
func (e *LoadError) Table() string {
	var schemaErr *SchemaCreationError
	if errors.As(e.Err, &schemaErr) {
		return schemaErr.Table
	}
	var rowErr *RowInsertionError
	if errors.As(e.Err, &rowErr) {
		return rowErr.Table
	}
	return ""
}

// ExportError is returned when reading the catalog or a table's rows fails.
// Table is empty for catalog failures.
type ExportError struct {
	Table string
	Err   error
}

// Error implements error
func (e *ExportError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("sheetdb: export failed: %v", e.Err)
	}
	return fmt.Sprintf("sheetdb: export of table %s failed: %v", e.Table, e.Err)
}

// Unwrap returns the underlying cause
func (e *ExportError) Unwrap() error {
	return e.Err
}

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	TableName string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithTable adds table context to the error
func (ec *ErrorContext) WithTable(tableName string) *ErrorContext {
	ec.TableName = tableName
	return ec
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	var parts []string
	parts = append(parts, fmt.Sprintf("sheetdb: %s failed", ec.Operation))

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}

	if ec.TableName != "" {
		parts = append(parts, "table: "+ec.TableName)
	}

	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return fmt.Errorf("%s", context)
}

// sourceUnavailable wraps err so that it matches ErrSourceUnavailable and keeps the cause.
func sourceUnavailable(operation, path string, err error) error {
	return NewErrorContext(operation, path).Error(fmt.Errorf("%w: %w", ErrSourceUnavailable, err))
}
