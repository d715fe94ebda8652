// Package config loads the sheetdb command line configuration.
// Values come from (highest precedence first) bound command flags,
// SHEETDB_* environment variables, an optional .env file and sheetdb.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nao1215/sheetdb"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix of environment variables read by Load
	EnvPrefix = "SHEETDB"
	// FileName is the configuration file looked up in the working directory
	FileName = "sheetdb"
)

// Action selects what the run command does.
type Action string

const (
	// ActionLoad ingests InputFile and loads it into the database
	ActionLoad Action = "load"
	// ActionImport is an alias of ActionLoad
	ActionImport Action = "import"
	// ActionSave exports the database and writes it to OutputFile
	ActionSave Action = "save"
	// ActionExport is an alias of ActionSave
	ActionExport Action = "export"
)

// IsLoad reports whether the action moves data from a file into the database
func (a Action) IsLoad() bool {
	return a == ActionLoad || a == ActionImport
}

// IsExport reports whether the action moves data from the database into a file
func (a Action) IsExport() bool {
	return a == ActionSave || a == ActionExport
}

// Config holds every setting of the command line tool.
type Config struct {
	// Driver is sqlite, mysql or postgres (default: sqlite)
	Driver string `mapstructure:"driver"`
	// Host is the database server host (default: localhost)
	Host string `mapstructure:"host"`
	// Port is the database server port; 0 selects the driver default
	Port int `mapstructure:"port"`
	// Database is the database name, or the file path for sqlite
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	// DSN is passed to the driver unchanged and overrides the fields above
	DSN string `mapstructure:"dsn"`

	InputFile  string `mapstructure:"input_file"`
	OutputFile string `mapstructure:"output_file"`
	Action     Action `mapstructure:"action"`

	// Format is the output format: xlsx, csv, tsv or parquet (default: xlsx)
	Format string `mapstructure:"format"`
	// Compression is none, gz, xz or zstd (default: none)
	Compression string `mapstructure:"compression"`
	// SampleRowAsData keeps the type sample row as the first data row (default: false)
	SampleRowAsData bool `mapstructure:"sample_row_as_data"`
}

// defaults lists every key with its default value. Keys without a default
// would be invisible to Unmarshal when they are only set in the environment.
var defaults = map[string]any{
	"driver":             sheetdb.DriverSQLite,
	"host":               "",
	"port":               0,
	"database":           "",
	"user":               "",
	"password":           "",
	"dsn":                "",
	"input_file":         "",
	"output_file":        "",
	"action":             "",
	"format":             "xlsx",
	"compression":        "none",
	"sample_row_as_data": false,
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default: .env) into
// the environment. Variables that are already set are kept and missing files
// are ignored.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// Load reads the configuration into v and returns it.
// configFile may be empty, in which case sheetdb.yaml is looked up in the
// working directory and its absence is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Action = Action(strings.ToLower(strings.TrimSpace(string(cfg.Action))))
	return &cfg, nil
}

// Validate checks the driver, the action, the output settings and that
// server databases are named.
func (c *Config) Validate() error {
	if _, err := c.DatabaseConfig().Dialect(); err != nil {
		return err
	}

	switch c.Action {
	case "", ActionLoad, ActionImport, ActionSave, ActionExport:
	default:
		return fmt.Errorf("unknown action %q: expected load, import, save or export", c.Action)
	}

	if _, err := c.DumpOptions(); err != nil {
		return err
	}

	if c.DSN == "" && !isSQLite(c.Driver) && strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database name is required for driver %s", c.Driver)
	}
	return nil
}

// DatabaseConfig returns the connection settings
func (c *Config) DatabaseConfig() sheetdb.DatabaseConfig {
	return sheetdb.DatabaseConfig{
		Driver:   c.Driver,
		Host:     c.Host,
		Port:     c.Port,
		Database: c.Database,
		User:     c.User,
		Password: c.Password,
		DSN:      c.DSN,
	}
}

// DumpOptions returns the output format and compression
func (c *Config) DumpOptions() (sheetdb.DumpOptions, error) {
	format, err := sheetdb.ParseOutputFormat(c.Format)
	if err != nil {
		return sheetdb.DumpOptions{}, err
	}
	compression, err := sheetdb.ParseCompression(c.Compression)
	if err != nil {
		return sheetdb.DumpOptions{}, err
	}
	return sheetdb.NewDumpOptions().WithFormat(format).WithCompression(compression), nil
}

// isSQLite reports whether driver selects the embedded sqlite driver
func isSQLite(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return true
	default:
		return false
	}
}
