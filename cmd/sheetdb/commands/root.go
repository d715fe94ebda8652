package commands

import (
	"fmt"
	"strings"

	"github.com/nao1215/sheetdb/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// globals holds the persistent flags shared by every command
type globals struct {
	configFile string
	envFile    string
	verbose    bool
}

// NewRootCmd builds the sheetdb command tree.
func NewRootCmd(version string) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:           "sheetdb",
		Short:         "Move spreadsheet data into a relational database and back",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			InitLogging(g.verbose)
			if g.envFile != "" {
				return config.LoadDotEnv(g.envFile)
			}
			return config.LoadDotEnv()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "Config file (default: ./sheetdb.yaml)")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", "", "Environment file (default: ./.env)")
	rootCmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable verbose (debug) logging")

	rootCmd.AddCommand(newLoadCmd(g))
	rootCmd.AddCommand(newExportCmd(g))
	rootCmd.AddCommand(newSchemaCmd(g))
	rootCmd.AddCommand(newRunCmd(g))
	return rootCmd
}

// loadConfig reads the configuration with the local flags of cmd bound on top
func (g *globals) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()

	var bindErr error
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return nil, bindErr
	}

	cfg, err := config.Load(v, g.configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// addDatabaseFlags registers the connection flags; names match the config keys
func addDatabaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("driver", "", "Database driver: sqlite, mysql or postgres")
	cmd.Flags().String("host", "", "Database host")
	cmd.Flags().Int("port", 0, "Database port")
	cmd.Flags().StringP("database", "d", "", "Database name, or file path for sqlite")
	cmd.Flags().String("user", "", "Database user")
	cmd.Flags().String("password", "", "Database password")
	cmd.Flags().String("dsn", "", "Driver specific connection string, overrides the other connection flags")
}

// addOutputFlags registers the dump format flags
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Output format: xlsx, csv, tsv or parquet")
	cmd.Flags().String("compression", "", "Output compression: none, gz, xz or zstd")
}
