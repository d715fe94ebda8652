package sheetdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	pqfile "github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/nao1215/sheetdb/domain/model"
)

// ParquetSource reads a Parquet file as a single sheet named after the file.
// The schema's column names form the header row; Arrow types map onto cell kinds.
type ParquetSource struct {
	path string
	name string
	data []byte
}

// NewParquetSource creates a source for a Parquet file, optionally compressed.
func NewParquetSource(path string) *ParquetSource {
	return &ParquetSource{
		path: path,
		name: model.TableFromFilePath(path),
	}
}

// NewParquetSourceFromBytes creates a source reading Parquet data held in memory.
// name becomes the sheet name.
func NewParquetSourceFromBytes(data []byte, name string) *ParquetSource {
	return &ParquetSource{
		name: name,
		data: data,
	}
}

// Sheets implements Source
func (s *ParquetSource) Sheets(ctx context.Context) ([]model.Sheet, error) {
	data := s.data
	if data == nil {
		// Parquet requires random access
		var err error
		data, err = readAllDecompressed(s.path)
		if err != nil {
			return nil, sourceUnavailable("open parquet", s.path, err)
		}
	}
	if len(data) == 0 {
		return nil, sourceUnavailable("open parquet", s.path, errors.New("empty parquet file"))
	}

	rows, err := readParquetRows(ctx, data)
	if err != nil {
		return nil, sourceUnavailable("read parquet", s.path, err)
	}
	return []model.Sheet{{Name: s.name, Rows: rows}}, nil
}

// readParquetRows returns the header row followed by one row per record
func readParquetRows(ctx context.Context, data []byte) ([][]model.Cell, error) {
	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make([]model.Cell, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = model.TextCell(field.Name)
	}
	rows := [][]model.Cell{header}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	for tableReader.Next() {
		batch := tableReader.Record()
		for i := 0; i < int(batch.NumRows()); i++ {
			row := make([]model.Cell, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowCell(col, i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, fmt.Errorf("error reading table records: %w", err)
	}
	return rows, nil
}

// arrowCell converts the value at index i of an Arrow array into a cell
func arrowCell(col arrow.Array, i int) model.Cell {
	if col.IsNull(i) {
		return model.EmptyCell()
	}

	switch a := col.(type) {
	case *array.Boolean:
		return model.BoolCell(a.Value(i))
	case *array.Int8:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Int16:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Int32:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Int64:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Uint8:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Uint16:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Uint32:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Uint64:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Float32:
		return model.NumericCell(float64(a.Value(i)))
	case *array.Float64:
		return model.NumericCell(a.Value(i))
	case *array.String:
		return model.TextCell(a.Value(i))
	case *array.LargeString:
		return model.TextCell(a.Value(i))
	case *array.Binary:
		return model.TextCell(string(a.Value(i)))
	case *array.Date32:
		return model.DateCell(a.Value(i).ToTime().UTC())
	case *array.Date64:
		return model.DateCell(a.Value(i).ToTime().UTC())
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return model.DateCell(a.Value(i).ToTime(unit).UTC())
	default:
		return model.OtherCell(col.ValueStr(i))
	}
}
