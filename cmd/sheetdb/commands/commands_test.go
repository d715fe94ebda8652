package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nao1215/sheetdb/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// peopleCSV repeats Ana on the sample row, which only fixes column types
const peopleCSV = "name,age,active\nAna,30,true\nAna,30,true\nLuis,25.5,false\n"

// newTestConfig returns a sqlite configuration rooted in a temporary directory
func newTestConfig(t *testing.T) (*config.Config, string) {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(input, []byte(peopleCSV), 0600))

	cfg := &config.Config{
		Driver:          "sqlite",
		Database:        filepath.Join(dir, "people.db"),
		InputFile:       input,
		OutputFile:      filepath.Join(dir, "out"),
		Format:          "csv",
		Compression:     "none",
		SampleRowAsData: false,
	}
	require.NoError(t, cfg.Validate())
	return cfg, dir
}

func TestRunLoadThenExport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg, dir := newTestConfig(t)

	require.NoError(t, runLoad(ctx, cfg))
	require.NoError(t, runExport(ctx, cfg))

	data, err := os.ReadFile(filepath.Join(dir, "out", "people.csv"))
	require.NoError(t, err)
	assert.Equal(t, "name,age,active\nAna,30,true\nLuis,26,false\n", string(data))
}

func TestRunAction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg, dir := newTestConfig(t)

	cfg.Action = config.ActionImport
	require.NoError(t, runAction(ctx, cfg))

	cfg.Action = config.ActionSave
	cfg.Format = "xlsx"
	cfg.OutputFile = filepath.Join(dir, "book")
	require.NoError(t, runAction(ctx, cfg))
	assert.FileExists(t, filepath.Join(dir, "book.xlsx"))

	cfg.Action = ""
	assert.Error(t, runAction(ctx, cfg))
}

func TestRunLoad_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg, dir := newTestConfig(t)

	cfg.InputFile = ""
	assert.Error(t, runLoad(ctx, cfg))

	cfg.InputFile = filepath.Join(dir, "missing.xlsx")
	assert.Error(t, runLoad(ctx, cfg))

	cfg.OutputFile = ""
	assert.Error(t, runExport(ctx, cfg))
}

func TestRunSchema(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t)
	cfg.Driver = "mysql"
	cfg.Database = "sales"

	var buf bytes.Buffer
	require.NoError(t, runSchema(context.Background(), &buf, cfg, cfg.InputFile))

	var doc struct {
		Dialect string `yaml:"dialect"`
		Tables  []struct {
			Name   string `yaml:"name"`
			Rows   int    `yaml:"rows"`
			DDL    string `yaml:"ddl"`
			Fields []struct {
				Name string `yaml:"name"`
				Type string `yaml:"type"`
			} `yaml:"fields"`
		} `yaml:"tables"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "mysql", doc.Dialect)
	require.Len(t, doc.Tables, 1)
	table := doc.Tables[0]
	assert.Equal(t, "people", table.Name)
	assert.Equal(t, 2, table.Rows)
	assert.Equal(t, "CREATE TABLE `people` (`name` VARCHAR(255), `age` INT, `active` BOOLEAN)", table.DDL)
	require.Len(t, table.Fields, 3)
	assert.Equal(t, "INTEGER", table.Fields[1].Type)
}

// Not parallel: the root command reconfigures the global logger.
func TestRootCmd_SchemaCommand(t *testing.T) {
	cfg, dir := newTestConfig(t)
	configFile := filepath.Join(dir, "sheetdb.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("driver: postgres\ndatabase: sales\n"), 0600))

	var out bytes.Buffer
	root := NewRootCmd("test")
	root.SetOut(&out)
	root.SetArgs([]string{"schema", "--config", configFile, "--env-file", filepath.Join(dir, "none.env"), cfg.InputFile})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "dialect: postgres")
	assert.Contains(t, out.String(), `CREATE TABLE "people"`)
}
