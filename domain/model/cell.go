package model

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// CellKind is the kind of value a spreadsheet cell holds.
type CellKind int

const (
	// CellKindEmpty represents a missing or blank cell
	CellKindEmpty CellKind = iota
	// CellKindText represents a string cell
	CellKindText
	// CellKindNumeric represents a number cell without date formatting
	CellKindNumeric
	// CellKindBoolean represents a boolean cell
	CellKindBoolean
	// CellKindDate represents a cell flagged by its source as a date or time
	CellKindDate
	// CellKindOther represents error cells and kinds the core does not understand
	CellKindOther
)

// String returns the name of the cell kind
func (k CellKind) String() string {
	switch k {
	case CellKindEmpty:
		return "empty"
	case CellKindText:
		return "text"
	case CellKindNumeric:
		return "numeric"
	case CellKindBoolean:
		return "boolean"
	case CellKindDate:
		return "date"
	case CellKindOther:
		return "other"
	default:
		return "other"
	}
}

// Cell is a single spreadsheet value. Only the member matching Kind is meaningful.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Bool   bool
	Time   time.Time
}

// EmptyCell returns a blank cell.
func EmptyCell() Cell {
	return Cell{Kind: CellKindEmpty}
}

// TextCell returns a string cell. Whitespace-only strings are stored as empty cells.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellKindText, Text: s}
}

// NumericCell returns a number cell.
func NumericCell(v float64) Cell {
	return Cell{Kind: CellKindNumeric, Number: v}
}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell {
	return Cell{Kind: CellKindBoolean, Bool: b}
}

// DateCell returns a date-flagged cell.
func DateCell(t time.Time) Cell {
	return Cell{Kind: CellKindDate, Time: t}
}

// OtherCell returns a cell of a kind the core cannot classify, keeping its raw text.
func OtherCell(raw string) Cell {
	return Cell{Kind: CellKindOther, Text: raw}
}

// IsEmpty reports whether the cell carries no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellKindEmpty
}

// String returns a display form of the cell value.
// Integral numbers are printed without a fractional part and dates use ISO-8601.
func (c Cell) String() string {
	switch c.Kind {
	case CellKindEmpty:
		return ""
	case CellKindText, CellKindOther:
		return c.Text
	case CellKindNumeric:
		return FormatNumber(c.Number)
	case CellKindBoolean:
		return strconv.FormatBool(c.Bool)
	case CellKindDate:
		return FormatTime(c.Time)
	default:
		return c.Text
	}
}

// FormatNumber renders a float without exponent and without a trailing ".0"
// for integral values.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTime renders t as an ISO-8601 date when the clock is exactly midnight,
// and as RFC 3339 otherwise.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}

// Sheet is one named grid of cells from a tabular source.
// A nil row means the source has no row object at that index; row iteration
// stops there. A non-nil empty row is a blank row that is present.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// Row returns the row at index i and whether a row object exists there.
func (s Sheet) Row(i int) ([]Cell, bool) {
	if i < 0 || i >= len(s.Rows) || s.Rows[i] == nil {
		return nil, false
	}
	return s.Rows[i], true
}

// Cell returns the cell at row i, column j. Missing cells are empty.
func (s Sheet) Cell(i, j int) Cell {
	row, ok := s.Row(i)
	if !ok || j < 0 || j >= len(row) {
		return EmptyCell()
	}
	return row[j]
}
