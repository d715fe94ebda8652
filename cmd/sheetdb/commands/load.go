package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/sheetdb"
	"github.com/nao1215/sheetdb/domain/model"
	"github.com/nao1215/sheetdb/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// newLoadCmd builds the 'load' cobra command.
func newLoadCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load [file]",
		Short: "Infer a schema from a spreadsheet and load it into the database",
		Long: `Reads every sheet of the file, infers one column type per field from the
row below the header and replaces the matching tables in a single transaction.
The file defaults to input_file from the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.InputFile = args[0]
			}
			return runLoad(cmd.Context(), cfg)
		},
	}

	addDatabaseFlags(cmd)
	return cmd
}

// runLoad is the entry point for the load command.
func runLoad(ctx context.Context, cfg *config.Config) error {
	if cfg.InputFile == "" {
		return errors.New("no input file: pass one or set input_file")
	}
	log.Debug().Str("input", cfg.InputFile).Str("driver", cfg.Driver).Msg("load started")

	workbook, err := ingestFile(ctx, cfg.InputFile, cfg.SampleRowAsData)
	if err != nil {
		return err
	}

	dialect, err := cfg.DatabaseConfig().Dialect()
	if err != nil {
		return err
	}
	db, err := sheetdb.Open(ctx, cfg.DatabaseConfig())
	if err != nil {
		return err
	}
	defer db.Close()

	loader := sheetdb.NewLoader(sheetdb.WithLogger(log.Logger), sheetdb.WithDialect(dialect))
	stats, err := loader.LoadWithStats(ctx, db, workbook)
	if err != nil {
		return err
	}

	log.Info().
		Str("input", cfg.InputFile).
		Int("tables", stats.Tables).
		Int("rows", stats.Rows).
		Msg("load finished")
	return nil
}

// ingestFile opens path with the source matching its extension and ingests it
func ingestFile(ctx context.Context, path string, sampleRowAsData bool) (*model.Workbook, error) {
	src, err := sheetdb.OpenSource(path)
	if err != nil {
		return nil, err
	}
	workbook, err := sheetdb.Ingest(ctx, src,
		sheetdb.WithLogger(log.Logger),
		sheetdb.WithSampleRowAsData(sampleRowAsData),
	)
	if err != nil {
		return nil, fmt.Errorf("ingesting %s: %w", path, err)
	}
	return workbook, nil
}
