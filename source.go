package sheetdb

import (
	"context"
	"fmt"

	"github.com/nao1215/sheetdb/domain/model"
)

// Source is a spreadsheet-shaped collection of sheets.
// Each sheet is an ordered grid of typed cells; row 0 holds the column names.
type Source interface {
	// Sheets returns the sheets in source order.
	Sheets(ctx context.Context) ([]model.Sheet, error)
}

// SheetsSource is a Source backed by sheets that are already in memory.
type SheetsSource []model.Sheet

// Sheets implements Source
func (s SheetsSource) Sheets(_ context.Context) ([]model.Sheet, error) {
	return s, nil
}

// OpenSource returns the Source implementation matching the file extension.
// Compressed variants (.gz, .bz2, .xz, .zst) are supported for every format.
//
// Supported formats:
//   - Excel workbooks (.xlsx): one sheet per worksheet
//   - CSV (.csv) and TSV (.tsv): one sheet named after the file
//   - Parquet (.parquet): one sheet named after the file
func OpenSource(path string) (Source, error) {
	if err := newValidator().validateSourcePath(path); err != nil {
		return nil, sourceUnavailable("open source", path, err)
	}

	file := model.NewFile(path)
	switch file.Type() {
	case model.FileTypeXLSX:
		return NewXLSXSource(path), nil
	case model.FileTypeCSV:
		return NewDelimitedSource(path, csvDelimiter), nil
	case model.FileTypeTSV:
		return NewDelimitedSource(path, tsvDelimiter), nil
	case model.FileTypeParquet:
		return NewParquetSource(path), nil
	default:
		return nil, sourceUnavailable("open source", path, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path))
	}
}
