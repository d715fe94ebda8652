package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldType is the closed set of column types the inferencer can produce.
// The zero value is FieldTypeUnknown.
type FieldType int

const (
	// FieldTypeUnknown is the fallback for empty or unclassifiable values
	FieldTypeUnknown FieldType = iota
	// FieldTypeInteger represents whole numbers
	FieldTypeInteger
	// FieldTypeFloat represents numbers with a fractional part
	FieldTypeFloat
	// FieldTypeText represents strings
	FieldTypeText
	// FieldTypeDate represents date-formatted cells
	FieldTypeDate
	// FieldTypeBoolean represents true/false cells
	FieldTypeBoolean
)

// Generic SQL column types
const (
	// SQLTypeInt is the SQL type for FieldTypeInteger
	SQLTypeInt = "INT"
	// SQLTypeDouble is the SQL type for FieldTypeFloat
	SQLTypeDouble = "DOUBLE"
	// SQLTypeVarchar is the SQL type for FieldTypeText and FieldTypeUnknown
	SQLTypeVarchar = "VARCHAR(255)"
	// SQLTypeDate is the SQL type for FieldTypeDate
	SQLTypeDate = "DATE"
	// SQLTypeBoolean is the SQL type for FieldTypeBoolean
	SQLTypeBoolean = "BOOLEAN"
)

// AllFieldTypes returns every FieldType in declaration order.
func AllFieldTypes() []FieldType {
	return []FieldType{
		FieldTypeUnknown,
		FieldTypeInteger,
		FieldTypeFloat,
		FieldTypeText,
		FieldTypeDate,
		FieldTypeBoolean,
	}
}

// String returns the upper-case name of the field type
func (ft FieldType) String() string {
	switch ft {
	case FieldTypeUnknown:
		return "UNKNOWN"
	case FieldTypeInteger:
		return "INTEGER"
	case FieldTypeFloat:
		return "FLOAT"
	case FieldTypeText:
		return "TEXT"
	case FieldTypeDate:
		return "DATE"
	case FieldTypeBoolean:
		return "BOOLEAN"
	default:
		return "UNKNOWN"
	}
}

// SQLType returns the generic SQL column type for the field type.
func (ft FieldType) SQLType() string {
	switch ft {
	case FieldTypeUnknown:
		return SQLTypeVarchar
	case FieldTypeInteger:
		return SQLTypeInt
	case FieldTypeFloat:
		return SQLTypeDouble
	case FieldTypeText:
		return SQLTypeVarchar
	case FieldTypeDate:
		return SQLTypeDate
	case FieldTypeBoolean:
		return SQLTypeBoolean
	default:
		return SQLTypeVarchar
	}
}

// ParseFieldType converts a type name such as "integer" back to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, ft := range AllFieldTypes() {
		if ft.String() == name {
			return ft, nil
		}
	}
	return FieldTypeUnknown, fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
}

// MarshalText implements encoding.TextMarshaler.
func (ft FieldType) MarshalText() ([]byte, error) {
	return []byte(ft.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ft *FieldType) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldType(string(text))
	if err != nil {
		return err
	}
	*ft = parsed
	return nil
}

// Coerce converts a cell into a value suitable for a column of this type.
// It returns nil when the cell is empty or cannot be represented:
//   - INTEGER: numeric cells and numeric text, rounded half away from zero, as int64
//   - FLOAT: numeric cells and numeric text as float64
//   - TEXT, UNKNOWN: the display form of any non-empty cell
//   - DATE: date-flagged cells only, as time.Time
//   - BOOLEAN: boolean cells and "true"/"false" text as bool
func (ft FieldType) Coerce(c Cell) any {
	if c.IsEmpty() {
		return nil
	}

	switch ft {
	case FieldTypeInteger:
		v, ok := cellNumber(c)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		rounded := math.Round(v)
		if rounded >= math.MaxInt64 || rounded < math.MinInt64 {
			return nil
		}
		return int64(rounded)
	case FieldTypeFloat:
		v, ok := cellNumber(c)
		if !ok {
			return nil
		}
		return v
	case FieldTypeText, FieldTypeUnknown:
		if c.Kind == CellKindOther && c.Text == "" {
			return nil
		}
		return c.String()
	case FieldTypeDate:
		if c.Kind != CellKindDate {
			return nil
		}
		return c.Time
	case FieldTypeBoolean:
		switch c.Kind {
		case CellKindBoolean:
			return c.Bool
		case CellKindText:
			switch strings.ToLower(strings.TrimSpace(c.Text)) {
			case "true":
				return true
			case "false":
				return false
			}
		}
		return nil
	default:
		return nil
	}
}

// cellNumber extracts a float from numeric cells and from text that parses as a number.
func cellNumber(c Cell) (float64, bool) {
	switch c.Kind {
	case CellKindNumeric:
		return c.Number, true
	case CellKindText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}
