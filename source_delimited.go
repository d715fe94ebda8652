package sheetdb

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
)

const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
)

// DelimitedSource reads a CSV or TSV file as a single sheet named after the file.
// Text has no cell types, so each value is classified: booleans, numbers and
// recognized date/time layouts become typed cells, everything else stays text.
type DelimitedSource struct {
	path      string
	name      string
	reader    io.Reader
	delimiter rune
}

// NewDelimitedSource creates a source for a delimited file, optionally compressed.
func NewDelimitedSource(path string, delimiter rune) *DelimitedSource {
	return &DelimitedSource{
		path:      path,
		name:      model.TableFromFilePath(path),
		delimiter: delimiter,
	}
}

// NewDelimitedSourceFromReader creates a source reading uncompressed delimited data from r.
// name becomes the sheet name.
func NewDelimitedSourceFromReader(r io.Reader, name string, delimiter rune) *DelimitedSource {
	return &DelimitedSource{
		name:      name,
		reader:    r,
		delimiter: delimiter,
	}
}

// Sheets implements Source
func (s *DelimitedSource) Sheets(ctx context.Context) ([]model.Sheet, error) {
	reader := s.reader
	if reader == nil {
		rc, err := openDecompressed(s.path)
		if err != nil {
			return nil, sourceUnavailable("open delimited file", s.path, err)
		}
		defer func() {
			_ = rc.Close() // Ignore close error after reading
		}()
		reader = rc
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = s.delimiter
	csvReader.FieldsPerRecord = -1

	var rows [][]model.Cell
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, sourceUnavailable("read delimited file", s.path, err)
		}

		row := make([]model.Cell, len(record))
		for i, value := range record {
			if len(rows) == 0 {
				// Header names are taken verbatim
				row[i] = model.TextCell(value)
				continue
			}
			row[i] = classifyText(value)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, sourceUnavailable("read delimited file", s.path, fmt.Errorf("no records found"))
	}
	return []model.Sheet{{Name: s.name, Rows: rows}}, nil
}

// classifyText converts a text value into the most specific cell kind it represents
func classifyText(value string) model.Cell {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return model.EmptyCell()
	}

	switch strings.ToLower(trimmed) {
	case "true":
		return model.BoolCell(true)
	case "false":
		return model.BoolCell(false)
	}

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		return model.NumericCell(v)
	}

	if t, ok := parseDatetime(trimmed); ok {
		return model.DateCell(t)
	}
	return model.TextCell(value)
}
