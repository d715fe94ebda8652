package sheetdb

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sheetdb/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dumpFixture returns a workbook with two typed tables
func dumpFixture(t *testing.T) *model.Workbook {
	t.Helper()

	events := model.NewTable("events")
	_ = events.AddField(model.NewField("title", model.FieldTypeText))
	_ = events.AddField(model.NewField("day", model.FieldTypeDate))
	_ = events.AddField(model.NewField("cost", model.FieldTypeFloat))
	events.AddRow("launch", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 12.5)
	events.AddRow("review", nil, 3.25)

	return workbookOf(t,
		peopleTable(model.Row{"Ana", int64(30), true}, model.Row{"Luis", int64(26), false}),
		events,
	)
}

// ingestFile opens path and ingests it
func ingestFile(t *testing.T, path string, opts ...Option) *model.Workbook {
	t.Helper()

	src, err := OpenSource(path)
	require.NoError(t, err)
	workbook, err := Ingest(context.Background(), src, opts...)
	require.NoError(t, err)
	return workbook
}

// ingestDump ingests a file written by Dump. Dumps hold no separate sample
// row, so the first data row also fixes the column types.
func ingestDump(t *testing.T, path string) *model.Workbook {
	t.Helper()
	return ingestFile(t, path, WithSampleRowAsData(true))
}

func TestDump_XLSX(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		compression CompressionType
	}{
		{name: "plain", compression: CompressionNone},
		{name: "gzip", compression: CompressionGZ},
		{name: "zstd", compression: CompressionZSTD},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			options := NewDumpOptions().WithCompression(tt.compression)
			base := filepath.Join(t.TempDir(), "nested", "book")
			require.NoError(t, Dump(dumpFixture(t), base, options))

			path := base + options.FileExtension()
			require.FileExists(t, path)

			workbook := ingestDump(t, path)
			assert.Equal(t, []string{"people", "events"}, workbook.TableNames())

			people, ok := workbook.Table("people")
			require.True(t, ok)
			assert.Equal(t, []model.FieldType{
				model.FieldTypeText,
				model.FieldTypeInteger,
				model.FieldTypeBoolean,
			}, fieldTypes(people))
			assert.Equal(t, []model.Row{
				{"Ana", int64(30), true},
				{"Luis", int64(26), false},
			}, people.Rows())

			events, ok := workbook.Table("events")
			require.True(t, ok)
			assert.Equal(t, model.FieldTypeDate, events.Fields()[1].Type())
			require.Len(t, events.Rows(), 2)
			assert.Equal(t, "2024-03-01", valueText(events.Rows()[0][1]))
			assert.Nil(t, events.Rows()[1][1])
		})
	}
}

func TestDump_XLSXKeepsGivenExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "book.XLSX")
	require.NoError(t, Dump(dumpFixture(t), path, NewDumpOptions()))
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+".xlsx")
}

func TestDump_Delimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		options DumpOptions
		want    string
	}{
		{
			name:    "csv",
			options: NewDumpOptions().WithFormat(OutputFormatCSV),
			want:    "title,day,cost\nlaunch,2024-03-01,12.5\nreview,,3.25\n",
		},
		{
			name:    "tsv",
			options: NewDumpOptions().WithFormat(OutputFormatTSV),
			want:    "title\tday\tcost\nlaunch\t2024-03-01\t12.5\nreview\t\t3.25\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := filepath.Join(t.TempDir(), "out")
			require.NoError(t, Dump(dumpFixture(t), dir, tt.options))

			data, err := os.ReadFile(filepath.Join(dir, "events"+tt.options.FileExtension()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.FileExists(t, filepath.Join(dir, "people"+tt.options.FileExtension()))
		})
	}
}

func TestDump_CompressedDelimitedIsReadable(t *testing.T) {
	t.Parallel()

	for _, compression := range []CompressionType{CompressionGZ, CompressionXZ, CompressionZSTD} {
		compression := compression
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			options := NewDumpOptions().WithFormat(OutputFormatCSV).WithCompression(compression)
			require.NoError(t, Dump(dumpFixture(t), dir, options))

			path := filepath.Join(dir, "people.csv"+compression.Extension())
			workbook := ingestDump(t, path)
			people, ok := workbook.Table("people")
			require.True(t, ok)
			assert.Equal(t, []model.Row{
				{"Ana", int64(30), true},
				{"Luis", int64(26), false},
			}, people.Rows())
		})
	}
}

func TestDump_Parquet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, Dump(dumpFixture(t), dir, NewDumpOptions().WithFormat(OutputFormatParquet)))

	workbook := ingestDump(t, filepath.Join(dir, "events.parquet"))
	events, ok := workbook.Table("events")
	require.True(t, ok)
	assert.Equal(t, []model.FieldType{
		model.FieldTypeText,
		model.FieldTypeDate,
		model.FieldTypeFloat,
	}, fieldTypes(events))

	rows := events.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "launch", rows[0][0])
	assert.Equal(t, "2024-03-01", valueText(rows[0][1]))
	assert.InDelta(t, 12.5, rows[0][2], 1e-12)
	assert.Nil(t, rows[1][1])

	people := ingestDump(t, filepath.Join(dir, "people.parquet"))
	table, ok := people.Table("people")
	require.True(t, ok)
	assert.Equal(t, model.Row{"Luis", int64(26), false}, table.Rows()[1])
}

func TestDump_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

	err := Dump(dumpFixture(t), file, NewDumpOptions().WithFormat(OutputFormatCSV))
	assert.Error(t, err, "a file is not an output directory")

	err = Dump(dumpFixture(t), dir, NewDumpOptions().WithFormat(OutputFormatCSV).WithCompression(CompressionBZ2))
	assert.Error(t, err, "bzip2 cannot be written")

	err = Dump(dumpFixture(t), "", NewDumpOptions().WithFormat(OutputFormatCSV))
	assert.Error(t, err)
}

func TestWriteDelimited_QuotesAndShortRows(t *testing.T) {
	t.Parallel()

	table := model.NewTable("notes")
	_ = table.AddField(model.NewField("text", model.FieldTypeText))
	_ = table.AddField(model.NewField("n", model.FieldTypeInteger))
	table.AddRow("a, \"quoted\" value", int64(1))
	table.AddRow("short")

	var buf bytes.Buffer
	require.NoError(t, writeDelimited(&buf, table, csvDelimiter))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"text,n",
		`"a, ""quoted"" value",1`,
		"short,",
	}, lines)
}

func TestValueText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: ""},
		{name: "string", value: "x", want: "x"},
		{name: "bool", value: false, want: "false"},
		{name: "int64", value: int64(-4), want: "-4"},
		{name: "int", value: 7, want: "7"},
		{name: "float", value: 0.125, want: "0.125"},
		{name: "integral float", value: 1e6, want: "1000000"},
		{name: "date", value: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), want: "2024-01-15"},
		{name: "bytes", value: []byte("b"), want: "b"},
		{name: "other", value: uint16(3), want: "3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, valueText(tt.value))
		})
	}
}
