package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldType_SQLType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fieldType FieldType
		want      string
	}{
		{FieldTypeInteger, "INT"},
		{FieldTypeFloat, "DOUBLE"},
		{FieldTypeText, "VARCHAR(255)"},
		{FieldTypeDate, "DATE"},
		{FieldTypeBoolean, "BOOLEAN"},
		{FieldTypeUnknown, "VARCHAR(255)"},
		{FieldType(999), "VARCHAR(255)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.fieldType.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.fieldType.SQLType())
		})
	}
}

func TestFieldType_TotalMappings(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for _, ft := range AllFieldTypes() {
		assert.NotEmpty(t, ft.SQLType(), "SQL type for %d", int(ft))
		assert.False(t, seen[ft.String()], "duplicate name %s", ft)
		seen[ft.String()] = true

		parsed, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}
	assert.Len(t, seen, 6)
}

func TestParseFieldType(t *testing.T) {
	t.Parallel()

	ft, err := ParseFieldType(" boolean ")
	require.NoError(t, err)
	assert.Equal(t, FieldTypeBoolean, ft)

	_, err = ParseFieldType("DECIMAL")
	require.ErrorIs(t, err, ErrUnknownFieldType)
}

func TestFieldType_Coerce(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		fieldType FieldType
		cell      Cell
		want      any
	}{
		{"integer from integral number", FieldTypeInteger, NumericCell(30), int64(30)},
		{"integer rounds half up", FieldTypeInteger, NumericCell(25.5), int64(26)},
		{"integer rounds half away from zero", FieldTypeInteger, NumericCell(-25.5), int64(-26)},
		{"integer rounds down", FieldTypeInteger, NumericCell(25.4), int64(25)},
		{"integer from numeric text", FieldTypeInteger, TextCell(" 12 "), int64(12)},
		{"integer from text", FieldTypeInteger, TextCell("abc"), nil},
		{"integer from boolean", FieldTypeInteger, BoolCell(true), nil},
		{"integer from NaN", FieldTypeInteger, NumericCell(math.NaN()), nil},
		{"integer out of range", FieldTypeInteger, NumericCell(1e300), nil},
		{"float from number", FieldTypeFloat, NumericCell(2.5), 2.5},
		{"float from numeric text", FieldTypeFloat, TextCell("1e3"), 1000.0},
		{"float from date", FieldTypeFloat, DateCell(day), nil},
		{"text from text", FieldTypeText, TextCell("Ana"), "Ana"},
		{"text from integral number", FieldTypeText, NumericCell(30), "30"},
		{"text from fractional number", FieldTypeText, NumericCell(0.25), "0.25"},
		{"text from boolean", FieldTypeText, BoolCell(true), "true"},
		{"text from date", FieldTypeText, DateCell(day), "2024-03-01"},
		{"unknown behaves like text", FieldTypeUnknown, NumericCell(7), "7"},
		{"date from date", FieldTypeDate, DateCell(day), day},
		{"date from text", FieldTypeDate, TextCell("2024-03-01"), nil},
		{"date from number", FieldTypeDate, NumericCell(45352), nil},
		{"boolean from boolean", FieldTypeBoolean, BoolCell(false), false},
		{"boolean from text", FieldTypeBoolean, TextCell("TRUE"), true},
		{"boolean from other text", FieldTypeBoolean, TextCell("yes"), nil},
		{"boolean from number", FieldTypeBoolean, NumericCell(1), nil},
		{"empty cell is nil", FieldTypeText, EmptyCell(), nil},
		{"empty error cell is nil", FieldTypeText, OtherCell(""), nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.fieldType.Coerce(tt.cell))
		})
	}
}

func TestFieldType_TextMarshaling(t *testing.T) {
	t.Parallel()

	b, err := FieldTypeFloat.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "FLOAT", string(b))

	var ft FieldType
	require.NoError(t, ft.UnmarshalText([]byte("date")))
	assert.Equal(t, FieldTypeDate, ft)
	assert.Error(t, ft.UnmarshalText([]byte("blob")))
}
