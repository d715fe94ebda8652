package sheetdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/sheetdb/domain/model"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads every worksheet of an Excel workbook.
// Cell kinds come from the stored cell type; numeric cells whose number
// format is a date or time format are reported as date cells.
type XLSXSource struct {
	path   string
	reader io.Reader
}

// NewXLSXSource creates a source for an .xlsx file, optionally compressed.
func NewXLSXSource(path string) *XLSXSource {
	return &XLSXSource{path: path}
}

// NewXLSXSourceFromReader creates a source reading an uncompressed workbook from r.
func NewXLSXSourceFromReader(r io.Reader) *XLSXSource {
	return &XLSXSource{reader: r}
}

// Sheets implements Source
func (s *XLSXSource) Sheets(ctx context.Context) ([]model.Sheet, error) {
	xlsxFile, err := s.open()
	if err != nil {
		return nil, sourceUnavailable("open xlsx", s.path, err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheets, err := readXLSXSheets(ctx, xlsxFile)
	if err != nil {
		return nil, sourceUnavailable("read xlsx", s.path, err)
	}
	return sheets, nil
}

// open opens the workbook from the reader or from the (possibly compressed) path
func (s *XLSXSource) open() (*excelize.File, error) {
	if s.reader != nil {
		return excelize.OpenReader(s.reader)
	}

	// excelize needs random access, so compressed files are read into memory first
	if model.NewFile(s.path).IsCompressed() {
		data, err := readAllDecompressed(s.path)
		if err != nil {
			return nil, err
		}
		return excelize.OpenReader(bytes.NewReader(data))
	}
	return excelize.OpenFile(s.path)
}

// readXLSXSheets converts every worksheet into a model.Sheet
func readXLSXSheets(ctx context.Context, xlsxFile *excelize.File) ([]model.Sheet, error) {
	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	cellReader := newXLSXCellReader(xlsxFile)
	sheets := make([]model.Sheet, 0, len(sheetNames))
	for _, sheetName := range sheetNames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rows, err := xlsxFile.GetRows(sheetName, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
		}

		// GetRows returns an empty slice for blank rows inside the used range,
		// so every index below len(rows) has a row object.
		cells := make([][]model.Cell, len(rows))
		for i, row := range rows {
			cells[i] = make([]model.Cell, len(row))
			for j, raw := range row {
				cells[i][j] = cellReader.cell(sheetName, j+1, i+1, raw)
			}
		}
		sheets = append(sheets, model.Sheet{Name: sheetName, Rows: cells})
	}
	return sheets, nil
}

// xlsxCellReader classifies raw cell values of one workbook
type xlsxCellReader struct {
	file       *excelize.File
	date1904   bool
	dateStyles map[int]bool
}

// newXLSXCellReader creates a cell reader, detecting the 1904 date system
func newXLSXCellReader(xlsxFile *excelize.File) *xlsxCellReader {
	r := &xlsxCellReader{
		file:       xlsxFile,
		dateStyles: make(map[int]bool),
	}
	if props, err := xlsxFile.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// cell converts the raw value at (col, row), both 1-based, into a model.Cell
func (r *xlsxCellReader) cell(sheet string, col, row int, raw string) model.Cell {
	if strings.TrimSpace(raw) == "" {
		return model.EmptyCell()
	}

	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return model.OtherCell(raw)
	}
	cellType, err := r.file.GetCellType(sheet, axis)
	if err != nil {
		return model.OtherCell(raw)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return model.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeDate:
		// t="d" cells store ISO 8601 text
		if t, ok := parseDatetime(raw); ok {
			return model.DateCell(t)
		}
		return model.OtherCell(raw)
	case excelize.CellTypeError:
		return model.OtherCell(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return model.TextCell(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return model.TextCell(raw)
		}
		if r.isDateFormatted(sheet, axis) {
			t, err := excelize.ExcelDateToTime(v, r.date1904)
			if err != nil {
				return model.OtherCell(raw)
			}
			return model.DateCell(t)
		}
		return model.NumericCell(v)
	default:
		return model.OtherCell(raw)
	}
}

// isDateFormatted reports whether the number format of the cell displays a date or time
func (r *xlsxCellReader) isDateFormatted(sheet, axis string) bool {
	styleID, err := r.file.GetCellStyle(sheet, axis)
	if err != nil {
		return false
	}
	if isDate, ok := r.dateStyles[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := r.file.GetStyle(styleID); err == nil && style != nil {
		isDate = isBuiltinDateFormat(style.NumFmt)
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	r.dateStyles[styleID] = isDate
	return isDate
}

// isBuiltinDateFormat reports whether a built-in number format ID is a date or time format
func isBuiltinDateFormat(numFmtID int) bool {
	switch {
	case numFmtID >= 14 && numFmtID <= 22:
		return true
	case numFmtID >= 27 && numFmtID <= 36:
		return true
	case numFmtID >= 45 && numFmtID <= 47:
		return true
	case numFmtID >= 50 && numFmtID <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode reports whether a custom number format code contains date or time tokens.
// Quoted literals, escaped characters and bracketed sections such as colors or
// currency locales are ignored; elapsed time sections like [h] count as time.
func isDateFormatCode(code string) bool {
	// Only the first section (positive numbers) decides
	if i := indexUnquoted(code, ';'); i >= 0 {
		code = code[:i]
	}

	inQuote := false
	inBracket := false
	var bracket strings.Builder
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case inBracket:
			if c == ']' {
				inBracket = false
				if isElapsedTimeToken(bracket.String()) {
					return true
				}
				bracket.Reset()
				continue
			}
			bracket.WriteByte(c)
		case c == '"':
			inQuote = true
		case c == '[':
			inBracket = true
		case c == '\\' || c == '_' || c == '*':
			i++ // skip the escaped or padding character
		default:
			switch c {
			case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
				return true
			}
		}
	}
	return false
}

// isElapsedTimeToken reports whether a bracketed section is [h], [mm], [ss] and so on
func isElapsedTimeToken(token string) bool {
	if token == "" {
		return false
	}
	token = strings.ToLower(token)
	first := token[0]
	if first != 'h' && first != 'm' && first != 's' {
		return false
	}
	return strings.Trim(token, string(first)) == ""
}

// indexUnquoted returns the index of the first sep outside double quotes, or -1
func indexUnquoted(s string, sep byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				return i
			}
		}
	}
	return -1
}
