package sheetdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported database drivers
const (
	// DriverSQLite selects modernc.org/sqlite; Database is the file path or ":memory:"
	DriverSQLite = "sqlite"
	// DriverMySQL selects github.com/go-sql-driver/mysql
	DriverMySQL = "mysql"
	// DriverPostgres selects github.com/jackc/pgx/v5 through database/sql
	DriverPostgres = "postgres"
)

const (
	defaultHost         = "localhost"
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
	memoryDatabase      = ":memory:"
)

// DatabaseConfig describes how to reach a database.
// When DSN is set it is passed to the driver unchanged and the other
// connection fields are ignored.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Database string
	User     string
	Password string
	DSN      string
}

// normalizedDriver maps driver aliases onto the Driver constants
func (c DatabaseConfig) normalizedDriver() (string, error) {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "mysql":
		return DriverMySQL, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}

// Dialect returns the SQL dialect of the configured driver
func (c DatabaseConfig) Dialect() (Dialect, error) {
	driverName, err := c.normalizedDriver()
	if err != nil {
		return Dialect{}, err
	}
	return DialectFor(driverName)
}

// DataSourceName builds the driver-specific DSN.
func (c DatabaseConfig) DataSourceName() (string, error) {
	driverName, err := c.normalizedDriver()
	if err != nil {
		return "", err
	}
	if c.DSN != "" {
		return c.DSN, nil
	}

	switch driverName {
	case DriverSQLite:
		if c.Database == "" {
			return memoryDatabase, nil
		}
		return c.Database, nil
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = c.address(defaultMySQLPort)
		cfg.DBName = c.Database
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	default:
		u := url.URL{
			Scheme: "postgres",
			Host:   c.address(defaultPostgresPort),
			Path:   "/" + c.Database,
		}
		if c.User != "" {
			if c.Password != "" {
				u.User = url.UserPassword(c.User, c.Password)
			} else {
				u.User = url.User(c.User)
			}
		}
		return u.String(), nil
	}
}

// address returns host:port, filling in defaults
func (c DatabaseConfig) address(defaultPort int) string {
	host := c.Host
	if host == "" {
		host = defaultHost
	}
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Open connects to the configured database and verifies the connection with a ping.
func Open(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	driverName, err := cfg.normalizedDriver()
	if err != nil {
		return nil, err
	}
	dsn, err := cfg.DataSourceName()
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	switch driverName {
	case DriverPostgres:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres connection string: %w", err)
		}
		db = stdlib.OpenDB(*connConfig)
	default:
		db, err = sql.Open(driverName, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", driverName, err)
		}
	}

	if driverName == DriverSQLite && strings.Contains(dsn, memoryDatabase) {
		// Every connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to %s database: %w", driverName, err), closeErr)
	}
	return db, nil
}
