package sheetdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nao1215/sheetdb/domain/model"
	"github.com/rs/zerolog"
)

// LoadStats summarizes a committed load.
type LoadStats struct {
	// Tables is the number of tables recreated
	Tables int
	// Rows is the number of rows inserted across all tables
	Rows int
}

// Loader recreates and fills tables inside a single transaction.
type Loader struct {
	ddl    *DDLGenerator
	logger zerolog.Logger
}

// NewLoader creates a Loader. It accepts WithLogger and WithDialect.
func NewLoader(opts ...Option) *Loader {
	o := newOptions(opts...)
	return &Loader{
		ddl:    NewDDLGenerator(o.dialect),
		logger: o.logger,
	}
}

// Load recreates every table of workbook in db and inserts its rows.
func (l *Loader) Load(ctx context.Context, db *sql.DB, workbook *model.Workbook) error {
	_, err := l.LoadWithStats(ctx, db, workbook)
	return err
}

// LoadWithStats is Load returning the number of tables and rows written.
//
// All tables are dropped and created first, then filled in workbook order,
// and the transaction is committed once at the end. On any failure the
// transaction is rolled back and a *LoadError wrapping a *SchemaCreationError,
// a *RowInsertionError or the transaction error is returned.
// ctx can cancel the load until the transaction begins.
func (l *Loader) LoadWithStats(ctx context.Context, db *sql.DB, workbook *model.Workbook) (LoadStats, error) {
	if db == nil {
		return LoadStats{}, ErrNilDatabase
	}
	if workbook == nil {
		workbook = model.NewWorkbook()
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return LoadStats{}, &LoadError{Err: fmt.Errorf("failed to get connection: %w", err)}
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return LoadStats{}, &LoadError{Err: fmt.Errorf("failed to begin transaction: %w", err)}
	}

	// Past this point the transaction must either commit or roll back as a whole
	txCtx := context.WithoutCancel(ctx)

	stats, err := l.load(txCtx, tx, workbook.Tables())
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			l.logger.Error().Err(rbErr).Msg("rollback failed")
		}
		return LoadStats{}, &LoadError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return LoadStats{}, &LoadError{Err: fmt.Errorf("failed to commit transaction: %w", err)}
	}

	l.logger.Info().Int("tables", stats.Tables).Int("rows", stats.Rows).Msg("load committed")
	return stats, nil
}

// load runs every statement of the load inside tx
func (l *Loader) load(ctx context.Context, tx *sql.Tx, tables []*model.Table) (LoadStats, error) {
	for _, table := range tables {
		if err := l.recreateTable(ctx, tx, table); err != nil {
			return LoadStats{}, err
		}
	}

	stats := LoadStats{Tables: len(tables)}
	for _, table := range tables {
		inserted, err := l.insertRows(ctx, tx, table)
		if err != nil {
			return LoadStats{}, err
		}
		stats.Rows += inserted
	}
	return stats, nil
}

// recreateTable drops table if it exists and creates it from its fields
func (l *Loader) recreateTable(ctx context.Context, tx *sql.Tx, table *model.Table) error {
	create, err := l.ddl.Generate(table)
	if err != nil {
		return &SchemaCreationError{Table: tableName(table), Err: err}
	}

	if _, err := tx.ExecContext(ctx, l.ddl.GenerateDrop(table)); err != nil {
		return &SchemaCreationError{Table: table.Name(), Err: fmt.Errorf("failed to drop table: %w", err)}
	}
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return &SchemaCreationError{Table: table.Name(), Err: fmt.Errorf("failed to create table: %w", err)}
	}

	l.logger.Debug().Str("table", table.Name()).Str("ddl", create).Msg("table created")
	return nil
}

// insertRows inserts every row of table with one prepared statement
func (l *Loader) insertRows(ctx context.Context, tx *sql.Tx, table *model.Table) (int, error) {
	rows := table.Rows()
	if len(rows) == 0 {
		return 0, nil
	}

	query, err := l.ddl.GenerateInsert(table)
	if err != nil {
		return 0, &RowInsertionError{Table: table.Name(), Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, &RowInsertionError{Table: table.Name(), Err: fmt.Errorf("failed to prepare insert: %w", err)}
	}
	defer stmt.Close()

	fieldCount := len(table.Fields())
	for i, row := range rows {
		if len(row) > fieldCount {
			return 0, &RowInsertionError{
				Table: table.Name(),
				Row:   i,
				Err:   fmt.Errorf("row has %d values for %d fields", len(row), fieldCount),
			}
		}
		// Missing values bind as NULL
		args := make([]any, fieldCount)
		copy(args, row)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, &RowInsertionError{Table: table.Name(), Row: i, Err: err}
		}
	}

	l.logger.Debug().Str("table", table.Name()).Int("rows", len(rows)).Msg("rows inserted")
	return len(rows), nil
}

// tableName returns the name of table, tolerating nil
func tableName(table *model.Table) string {
	if table == nil {
		return ""
	}
	return table.Name()
}
