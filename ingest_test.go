package sheetdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/sheetdb/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textRow builds a row of text cells; "" becomes an empty cell
func textRow(values ...string) []model.Cell {
	row := make([]model.Cell, len(values))
	for i, v := range values {
		row[i] = model.TextCell(v)
	}
	return row
}

// peopleSheet is the sheet used throughout the documentation.
// Row 1 is the sample row and repeats the first data row.
func peopleSheet() model.Sheet {
	return model.Sheet{
		Name: "people",
		Rows: [][]model.Cell{
			textRow("name", "age", "active"),
			{model.TextCell("Ana"), model.NumericCell(30), model.BoolCell(true)},
			{model.TextCell("Ana"), model.NumericCell(30), model.BoolCell(true)},
			{model.TextCell("Luis"), model.NumericCell(25.5), model.BoolCell(false)},
			{model.EmptyCell(), model.EmptyCell(), model.EmptyCell()},
		},
	}
}

type failingSource struct{}

func (failingSource) Sheets(context.Context) ([]model.Sheet, error) {
	return nil, errors.New("broken container")
}

func TestIngest_PeopleExample(t *testing.T) {
	t.Parallel()

	workbook, err := Ingest(context.Background(), SheetsSource{peopleSheet()})
	require.NoError(t, err)

	table, ok := workbook.Table("people")
	require.True(t, ok)

	assert.Equal(t, []model.Field{
		model.NewField("name", model.FieldTypeText),
		model.NewField("age", model.FieldTypeInteger),
		model.NewField("active", model.FieldTypeBoolean),
	}, table.Fields())

	rows := table.Rows()
	require.Len(t, rows, 2, "the all-blank row must be dropped")
	assert.Equal(t, model.Row{"Ana", int64(30), true}, rows[0])
	assert.Equal(t, model.Row{"Luis", int64(26), false}, rows[1], "25.5 rounds half away from zero")
}

func TestIngest_SampleRowAsData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []Option
		names []any
	}{
		{name: "default loads from the row after the sample row", names: []any{"Ana", "Luis"}},
		{name: "opt-in loads the sample row too", opts: []Option{WithSampleRowAsData(true)}, names: []any{"Ana", "Ana", "Luis"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workbook, err := Ingest(context.Background(), SheetsSource{peopleSheet()}, tt.opts...)
			require.NoError(t, err)

			table, ok := workbook.Table("people")
			require.True(t, ok)
			names := make([]any, 0, len(table.Rows()))
			for _, row := range table.Rows() {
				names = append(names, row[0])
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestIngest_SampleRowOnlyTypesColumns(t *testing.T) {
	t.Parallel()

	sheet := model.Sheet{
		Name: "scores",
		Rows: [][]model.Cell{
			textRow("player", "score"),
			{model.TextCell("sample"), model.NumericCell(1.5)},
			{model.TextCell("Kai"), model.NumericCell(7)},
		},
	}

	workbook, err := Ingest(context.Background(), SheetsSource{sheet})
	require.NoError(t, err)

	table, ok := workbook.Table("scores")
	require.True(t, ok)
	assert.Equal(t, model.FieldTypeFloat, table.Fields()[1].Type())
	require.Len(t, table.Rows(), 1)
	assert.Equal(t, model.Row{"Kai", float64(7)}, table.Rows()[0])
}

func TestIngest_TypeIsFixedBySampleRow(t *testing.T) {
	t.Parallel()

	sheet := model.Sheet{
		Name: "events",
		Rows: [][]model.Cell{
			textRow("id", "happened", "note"),
			{model.NumericCell(1), model.DateCell(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)), model.TextCell("first")},
			{model.TextCell("2"), model.TextCell("2024-01-16"), model.NumericCell(3)},
			{model.TextCell("x"), model.NumericCell(45000), model.BoolCell(true)},
		},
	}

	workbook, err := Ingest(context.Background(), SheetsSource{sheet})
	require.NoError(t, err)

	table, ok := workbook.Table("events")
	require.True(t, ok)
	require.Len(t, table.Rows(), 2)

	// numeric text is accepted for INTEGER, DATE needs a date-flagged cell, TEXT takes any display form
	assert.Equal(t, model.Row{int64(2), nil, "3"}, table.Rows()[0])
	assert.Equal(t, model.Row{nil, nil, "true"}, table.Rows()[1])
}

func TestIngest_HeaderHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header []model.Cell
		want   []string
	}{
		{
			name:   "names are trimmed",
			header: textRow("  id ", "name"),
			want:   []string{"id", "name"},
		},
		{
			name:   "first blank cell ends the header",
			header: textRow("id", "", "ignored"),
			want:   []string{"id"},
		},
		{
			name:   "duplicates get a numeric suffix",
			header: textRow("id", "id", "id", "id_2"),
			want:   []string{"id", "id_2", "id_3", "id_2_2"},
		},
		{
			name:   "non-text header cells use their display form",
			header: []model.Cell{model.NumericCell(2024), model.BoolCell(true)},
			want:   []string{"2024", "true"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fieldNames(tt.header))
		})
	}
}

func TestIngest_SkipsSheetsWithoutFields(t *testing.T) {
	t.Parallel()

	src := SheetsSource{
		{Name: "empty"},
		{Name: "blank_header", Rows: [][]model.Cell{textRow("", "x"), textRow("1", "2")}},
		peopleSheet(),
	}

	workbook, err := Ingest(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []string{"people"}, workbook.TableNames())
}

func TestIngest_StopsAtMissingRow(t *testing.T) {
	t.Parallel()

	sheet := model.Sheet{
		Name: "gaps",
		Rows: [][]model.Cell{
			textRow("v"),
			textRow("s"),
			textRow("a"),
			{},
			textRow("b"),
			nil,
			textRow("unreachable"),
		},
	}

	workbook, err := Ingest(context.Background(), SheetsSource{sheet})
	require.NoError(t, err)

	table, ok := workbook.Table("gaps")
	require.True(t, ok)
	assert.Equal(t, []model.Row{{"a"}, {"b"}}, table.Rows())
}

func TestIngest_ShortRowsArePadded(t *testing.T) {
	t.Parallel()

	sheet := model.Sheet{
		Name: "short",
		Rows: [][]model.Cell{
			textRow("a", "b", "c"),
			textRow("s", "t", "u"),
			textRow("x"),
		},
	}

	workbook, err := Ingest(context.Background(), SheetsSource{sheet})
	require.NoError(t, err)

	table, _ := workbook.Table("short")
	require.Len(t, table.Rows(), 1)
	assert.Equal(t, model.Row{"x", nil, nil}, table.Rows()[0])
}

func TestIngest_RowPresentIffAnyValueNonNil(t *testing.T) {
	t.Parallel()

	types := []model.FieldType{model.FieldTypeInteger, model.FieldTypeDate, model.FieldTypeText}
	rows := [][]model.Cell{
		{model.EmptyCell(), model.EmptyCell(), model.EmptyCell()},
		{model.TextCell("abc"), model.NumericCell(1), model.EmptyCell()},
		{model.NumericCell(1), model.EmptyCell(), model.EmptyCell()},
		{model.EmptyCell(), model.EmptyCell(), model.OtherCell("#N/A")},
		{},
	}

	for i, row := range rows {
		values, present := coerceRow(row, types)
		anyNonNil := false
		for _, v := range values {
			if v != nil {
				anyNonNil = true
			}
		}
		assert.Equal(t, anyNonNil, present, "row %d", i)
		assert.Len(t, values, len(types))
	}
}

func TestIngest_SourceFailure(t *testing.T) {
	t.Parallel()

	_, err := Ingest(context.Background(), failingSource{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestIngest_DuplicateSheetNamesKeepFirst(t *testing.T) {
	t.Parallel()

	second := peopleSheet()
	second.Rows = second.Rows[:3]

	workbook, err := Ingest(context.Background(), SheetsSource{peopleSheet(), second})
	require.NoError(t, err)

	table, ok := workbook.Table("people")
	require.True(t, ok)
	assert.Len(t, table.Rows(), 2)
	assert.Len(t, workbook.Tables(), 1)
}
