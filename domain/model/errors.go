// Package model provides the intermediate schema and data model shared by
// the spreadsheet ingestor, the database loader and the database exporter.
package model

import "errors"

var (
	// ErrDuplicateFieldName is returned when a table already has a field with the same name
	ErrDuplicateFieldName = errors.New("duplicate field name")

	// ErrDuplicateTableName is returned when a workbook already has a table with the same name
	ErrDuplicateTableName = errors.New("duplicate table name")

	// ErrEmptyName is returned when a table or field name is blank
	ErrEmptyName = errors.New("empty name")

	// ErrUnknownFieldType is returned by ParseFieldType for unrecognized type names
	ErrUnknownFieldType = errors.New("unknown field type")
)
