package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nao1215/sheetdb"
	"github.com/nao1215/sheetdb/domain/model"
	"github.com/nao1215/sheetdb/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// schemaDocument is the YAML printed by the schema command
type schemaDocument struct {
	Dialect string        `yaml:"dialect"`
	Tables  []tableSchema `yaml:"tables"`
}

type tableSchema struct {
	Name   string        `yaml:"name"`
	Rows   int           `yaml:"rows"`
	Fields []fieldSchema `yaml:"fields"`
	DDL    string        `yaml:"ddl"`
}

type fieldSchema struct {
	Name string          `yaml:"name"`
	Type model.FieldType `yaml:"type"`
}

// newSchemaCmd builds the 'schema' cobra command.
func newSchemaCmd(g *globals) *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "schema <file>",
		Short: "Print the schema inferred from a spreadsheet as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputFile != "" {
				f, err := os.Create(outputFile) //nolint:gosec // User-provided path is necessary for file operations
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return runSchema(cmd.Context(), out, cfg, args[0])
		},
	}

	cmd.Flags().String("driver", "", "Dialect of the printed DDL: sqlite, mysql or postgres")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write output to file instead of stdout")
	return cmd
}

// runSchema is the entry point for the schema command.
func runSchema(ctx context.Context, w io.Writer, cfg *config.Config, path string) error {
	log.Debug().Str("input", path).Msg("schema started")

	workbook, err := ingestFile(ctx, path, cfg.SampleRowAsData)
	if err != nil {
		return err
	}

	dialect, err := cfg.DatabaseConfig().Dialect()
	if err != nil {
		return err
	}
	ddl := sheetdb.NewDDLGenerator(dialect)

	doc := schemaDocument{Dialect: dialect.Name()}
	for _, table := range workbook.Tables() {
		create, err := ddl.Generate(table)
		if err != nil {
			return fmt.Errorf("generating DDL for %s: %w", table.Name(), err)
		}

		ts := tableSchema{
			Name: table.Name(),
			Rows: len(table.Rows()),
			DDL:  create,
		}
		for _, field := range table.Fields() {
			ts.Fields = append(ts.Fields, fieldSchema{Name: field.Name(), Type: field.Type()})
		}
		doc.Tables = append(doc.Tables, ts)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	return enc.Close()
}
