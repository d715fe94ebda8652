package sheetdb

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"github.com/nao1215/sheetdb/domain/model"
	"github.com/xuri/excelize/v2"
)

// defaultSheetName is the sheet excelize creates in a new workbook
const defaultSheetName = "Sheet1"

// Dump writes workbook to files. Every table becomes a grid whose first row
// holds the field names followed by the data rows in field order.
//
// With OutputFormatXLSX, path is the workbook file; the format extension (and
// compression extension) is appended when missing. With the other formats,
// path is a directory that receives one <table><ext> file per table.
func Dump(workbook *model.Workbook, path string, options DumpOptions) error {
	if workbook == nil {
		workbook = model.NewWorkbook()
	}
	v := newValidator()

	if options.Format.singleFile() {
		if !strings.HasSuffix(strings.ToLower(path), options.FileExtension()) {
			path += options.FileExtension()
		}
		if err := v.validateOutputFile(path); err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		return writeCompressed(path, options.Compression, func(w io.Writer) error {
			return writeXLSX(w, workbook.Tables())
		})
	}

	if err := v.validateOutputDirectory(path); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, table := range workbook.Tables() {
		outputPath := filepath.Join(path, table.Name()+options.FileExtension())
		err := writeCompressed(outputPath, options.Compression, func(w io.Writer) error {
			switch options.Format {
			case OutputFormatCSV:
				return writeDelimited(w, table, csvDelimiter)
			case OutputFormatTSV:
				return writeDelimited(w, table, tsvDelimiter)
			case OutputFormatParquet:
				return writeParquet(w, table)
			default:
				return fmt.Errorf("%w: %s", ErrUnsupportedFormat, options.Format)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to export table %s: %w", table.Name(), err)
		}
	}
	return nil
}

// writeCompressed creates path and hands a (possibly compressing) writer to write
func writeCompressed(path string, compression CompressionType, write func(io.Writer) error) error {
	wc, err := createCompressed(path, compression)
	if err != nil {
		return err
	}
	if err := write(wc); err != nil {
		_ = wc.Close() // Ignore close error, the write error is more important
		return err
	}
	return wc.Close()
}

// writeXLSX writes one sheet per table
func writeXLSX(w io.Writer, tables []*model.Table) error {
	xlsxFile := excelize.NewFile()
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	for i, table := range tables {
		sheetName := table.Name()
		if i == 0 {
			if err := xlsxFile.SetSheetName(defaultSheetName, sheetName); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheetName, err)
			}
		} else if _, err := xlsxFile.NewSheet(sheetName); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
		}

		header := make([]any, 0, len(table.Fields()))
		for _, name := range table.FieldNames() {
			header = append(header, name)
		}
		if err := xlsxFile.SetSheetRow(sheetName, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of sheet %s: %w", sheetName, err)
		}

		for r, row := range table.Rows() {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := []any(row)
			if err := xlsxFile.SetSheetRow(sheetName, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of sheet %s: %w", r+1, sheetName, err)
			}
		}
	}

	if _, err := xlsxFile.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// writeDelimited writes the header and all rows of table
func writeDelimited(w io.Writer, table *model.Table, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := csvWriter.Write(table.FieldNames()); err != nil {
		return err
	}
	fieldCount := len(table.Fields())
	for _, row := range table.Rows() {
		record := make([]string, fieldCount)
		for i := range record {
			if i < len(row) {
				record[i] = valueText(row[i])
			}
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// valueText renders a row value for text formats; nil becomes an empty string
func valueText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return model.FormatNumber(val)
	case time.Time:
		return model.FormatTime(val)
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// parquetType returns the Arrow type used to store a field type
func parquetType(ft model.FieldType) arrow.DataType {
	switch ft {
	case model.FieldTypeInteger:
		return arrow.PrimitiveTypes.Int64
	case model.FieldTypeFloat:
		return arrow.PrimitiveTypes.Float64
	case model.FieldTypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case model.FieldTypeDate:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

// writeParquet writes table as a single Parquet row group.
// The file is assembled in memory and copied to w once the footer is written.
func writeParquet(w io.Writer, table *model.Table) error {
	fields := table.Fields()
	arrowFields := make([]arrow.Field, len(fields))
	for i, field := range fields {
		arrowFields[i] = arrow.Field{Name: field.Name(), Type: parquetType(field.Type()), Nullable: true}
	}
	schema := arrow.NewSchema(arrowFields, nil)

	builder := array.NewRecordBuilder(memory.NewGoAllocator(), schema)
	defer builder.Release()

	for _, row := range table.Rows() {
		for i := range fields {
			var v any
			if i < len(row) {
				v = row[i]
			}
			appendArrowValue(builder.Field(i), v)
		}
	}

	record := builder.NewRecord()
	defer record.Release()

	var buf bytes.Buffer
	fileWriter, err := pqarrow.NewFileWriter(schema, &buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fileWriter.Write(record); err != nil {
		_ = fileWriter.Close() // Ignore close error, the write error is more important
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	if err := fileWriter.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	_, err = buf.WriteTo(w)
	return err
}

// appendArrowValue appends v to b; values that do not fit the column type are stored as null
func appendArrowValue(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}

	switch builder := b.(type) {
	case *array.Int64Builder:
		switch val := v.(type) {
		case int64:
			builder.Append(val)
		case int:
			builder.Append(int64(val))
		default:
			builder.AppendNull()
		}
	case *array.Float64Builder:
		if val, ok := v.(float64); ok {
			builder.Append(val)
			return
		}
		builder.AppendNull()
	case *array.BooleanBuilder:
		if val, ok := v.(bool); ok {
			builder.Append(val)
			return
		}
		builder.AppendNull()
	case *array.TimestampBuilder:
		if val, ok := v.(time.Time); ok {
			builder.Append(arrow.Timestamp(val.UnixMicro()))
			return
		}
		builder.AppendNull()
	case *array.StringBuilder:
		builder.Append(valueText(v))
	default:
		b.AppendNull()
	}
}
