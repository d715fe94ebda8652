package sheetdb

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
	"github.com/rs/zerolog"
)

const (
	// headerRow is the index of the row holding field names
	headerRow = 0
	// sampleRow is the index of the row whose cells fix the column types
	sampleRow = 1
)

// Ingestor turns a tabular source into a Workbook, one table per sheet.
type Ingestor struct {
	logger          zerolog.Logger
	sampleRowAsData bool
}

// NewIngestor creates an Ingestor. It accepts WithLogger and WithSampleRowAsData.
func NewIngestor(opts ...Option) *Ingestor {
	o := newOptions(opts...)
	return &Ingestor{
		logger:          o.logger,
		sampleRowAsData: o.sampleRowAsData,
	}
}

// Ingest reads src with a default Ingestor.
func Ingest(ctx context.Context, src Source, opts ...Option) (*model.Workbook, error) {
	return NewIngestor(opts...).Ingest(ctx, src)
}

// Ingest builds a Workbook from every sheet of src.
//
// For each sheet the name becomes the table name, row 0 supplies field names
// and row 1 fixes one type per column. Data rows are coerced to those types;
// rows whose values are all nil are dropped. Only a failure to read src is an
// error, and it matches ErrSourceUnavailable.
func (i *Ingestor) Ingest(ctx context.Context, src Source) (*model.Workbook, error) {
	if src == nil {
		return nil, sourceUnavailable("ingest", "", errors.New("nil source"))
	}

	sheets, err := src.Sheets(ctx)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) {
			return nil, err
		}
		return nil, sourceUnavailable("ingest", "", err)
	}

	workbook := model.NewWorkbook()
	for _, sheet := range sheets {
		table := i.ingestSheet(sheet)
		if table == nil {
			continue
		}
		if err := workbook.AddTable(table); err != nil {
			i.logger.Warn().Err(err).Str("sheet", sheet.Name).Msg("sheet skipped")
			continue
		}
		i.logger.Debug().
			Str("table", table.Name()).
			Int("fields", len(table.Fields())).
			Int("rows", len(table.Rows())).
			Msg("sheet ingested")
	}
	return workbook, nil
}

// ingestSheet converts one sheet into a table, or returns nil when the sheet has no fields
func (i *Ingestor) ingestSheet(sheet model.Sheet) *model.Table {
	header, ok := sheet.Row(headerRow)
	if !ok {
		i.logger.Debug().Str("sheet", sheet.Name).Msg("sheet skipped: no header row")
		return nil
	}

	names := fieldNames(header)
	if len(names) == 0 {
		i.logger.Debug().Str("sheet", sheet.Name).Msg("sheet skipped: no fields")
		return nil
	}

	table := model.NewTable(sheet.Name)
	types := make([]model.FieldType, len(names))
	for col, name := range names {
		types[col] = model.InferColumn(sheet.Cell(sampleRow, col))
		if err := table.AddField(model.NewField(name, types[col])); err != nil {
			// names are non-blank and unique, so this only guards future changes
			i.logger.Warn().Err(err).Str("sheet", sheet.Name).Msg("field skipped")
			return nil
		}
	}

	start := sampleRow + 1
	if i.sampleRowAsData {
		start = sampleRow
	}

	for rowIdx := start; ; rowIdx++ {
		row, ok := sheet.Row(rowIdx)
		if !ok {
			break
		}

		values, present := coerceRow(row, types)
		if !present {
			i.logger.Debug().Str("sheet", sheet.Name).Int("row", rowIdx).Msg("empty row dropped")
			continue
		}
		table.AddRow(values...)
	}
	return table
}

// coerceRow coerces each cell to its column type and reports whether any value is non-nil
func coerceRow(row []model.Cell, types []model.FieldType) ([]any, bool) {
	values := make([]any, len(types))
	present := false
	for col, fieldType := range types {
		cell := model.EmptyCell()
		if col < len(row) {
			cell = row[col]
		}
		values[col] = fieldType.Coerce(cell)
		if values[col] != nil {
			present = true
		}
	}
	return values, present
}

// fieldNames returns the trimmed header names up to the first blank cell.
// Repeated names get a numeric suffix: id, id_2, id_3.
func fieldNames(header []model.Cell) []string {
	names := make([]string, 0, len(header))
	seen := make(map[string]bool, len(header))
	for _, cell := range header {
		name := strings.TrimSpace(cell.String())
		if name == "" {
			break
		}
		if seen[name] {
			base := name
			for n := 2; seen[name]; n++ {
				name = base + "_" + strconv.Itoa(n)
			}
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
