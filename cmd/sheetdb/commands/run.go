package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/nao1215/sheetdb/internal/config"
	"github.com/spf13/cobra"
)

// newRunCmd builds the 'run' cobra command.
func newRunCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load or export depending on the configured action",
		Long: `Runs the action set in the configuration: load or import reads input_file
into the database, save or export writes the database to output_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			return runAction(cmd.Context(), cfg)
		},
	}

	addDatabaseFlags(cmd)
	addOutputFlags(cmd)
	cmd.Flags().String("action", "", "Action: load, import, save or export")
	cmd.Flags().String("input-file", "", "Spreadsheet read by load and import")
	cmd.Flags().String("output-file", "", "Output written by save and export")
	return cmd
}

// runAction dispatches on cfg.Action
func runAction(ctx context.Context, cfg *config.Config) error {
	switch {
	case cfg.Action.IsLoad():
		return runLoad(ctx, cfg)
	case cfg.Action.IsExport():
		return runExport(ctx, cfg)
	case cfg.Action == "":
		return errors.New("no action configured: set action to load, import, save or export")
	default:
		return fmt.Errorf("unknown action %q", cfg.Action)
	}
}
