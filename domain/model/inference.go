package model

import "math"

// IntegralEpsilon is the tolerance used to decide whether a number is integral.
// A value v is an integer when abs(v - round(v)) < IntegralEpsilon.
const IntegralEpsilon = 1e-10

// Infer classifies a single cell. Rules are applied in order and the first
// match wins: empty, text, date, numeric (integer or float), boolean.
// Anything else is FieldTypeUnknown. Infer never fails.
func Infer(c Cell) FieldType {
	switch c.Kind {
	case CellKindEmpty:
		return FieldTypeUnknown
	case CellKindText:
		return FieldTypeText
	case CellKindDate:
		return FieldTypeDate
	case CellKindNumeric:
		if isIntegral(c.Number) {
			return FieldTypeInteger
		}
		return FieldTypeFloat
	case CellKindBoolean:
		return FieldTypeBoolean
	case CellKindOther:
		return FieldTypeUnknown
	default:
		return FieldTypeUnknown
	}
}

// InferColumn fixes a column type from its sample cell, the cell in the row
// right after the header. Later rows are coerced to this type, not re-inferred.
func InferColumn(sample Cell) FieldType {
	return Infer(sample)
}

// isIntegral reports whether v is within IntegralEpsilon of a whole number.
func isIntegral(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return math.Abs(v-math.Round(v)) < IntegralEpsilon
}
