package commands

import (
	"context"
	"errors"

	"github.com/nao1215/sheetdb"
	"github.com/nao1215/sheetdb/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newExportCmd builds the 'export' cobra command.
func newExportCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [output]",
		Short: "Write every table of the database to a spreadsheet",
		Long: `Reads all base tables of the database, ordered by name, and writes them as
text columns. With the xlsx format the output is one workbook file; with csv,
tsv and parquet it is a directory holding one file per table. The output
defaults to output_file from the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.OutputFile = args[0]
			}
			return runExport(cmd.Context(), cfg)
		},
	}

	addDatabaseFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

// runExport is the entry point for the export command.
func runExport(ctx context.Context, cfg *config.Config) error {
	if cfg.OutputFile == "" {
		return errors.New("no output: pass one or set output_file")
	}
	options, err := cfg.DumpOptions()
	if err != nil {
		return err
	}
	log.Debug().
		Str("output", cfg.OutputFile).
		Str("format", options.Format.String()).
		Str("compression", options.Compression.String()).
		Msg("export started")

	dialect, err := cfg.DatabaseConfig().Dialect()
	if err != nil {
		return err
	}
	db, err := sheetdb.Open(ctx, cfg.DatabaseConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	exporter := sheetdb.NewExporter(sheetdb.WithLogger(log.Logger), sheetdb.WithDialect(dialect))
	workbook, err := exporter.Export(ctx, db)
	if err != nil {
		return err
	}

	if err := sheetdb.Dump(workbook, cfg.OutputFile, options); err != nil {
		return err
	}

	log.Info().
		Str("output", cfg.OutputFile).
		Int("tables", len(workbook.Tables())).
		Msg("export finished")
	return nil
}
