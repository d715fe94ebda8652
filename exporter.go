package sheetdb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/sheetdb/domain/model"
	"github.com/rs/zerolog"
)

// Exporter reads every base table of a database into a Workbook.
// The database is authoritative: no type inference runs, every field is TEXT
// and values are turned into display-safe forms.
type Exporter struct {
	dialect Dialect
	logger  zerolog.Logger
}

// NewExporter creates an Exporter. It accepts WithLogger and WithDialect.
func NewExporter(opts ...Option) *Exporter {
	o := newOptions(opts...)
	return &Exporter{
		dialect: o.dialect,
		logger:  o.logger,
	}
}

// Export materializes all base tables of db, ordered by name.
// Any catalog or row error is returned as *ExportError.
func (e *Exporter) Export(ctx context.Context, db *sql.DB) (*model.Workbook, error) {
	if db == nil {
		return nil, ErrNilDatabase
	}

	names, err := e.tableNames(ctx, db)
	if err != nil {
		return nil, &ExportError{Err: err}
	}

	workbook := model.NewWorkbook()
	for _, name := range names {
		table, err := e.exportTable(ctx, db, name)
		if err != nil {
			return nil, &ExportError{Table: name, Err: err}
		}
		if err := workbook.AddTable(table); err != nil {
			return nil, &ExportError{Table: name, Err: err}
		}
		e.logger.Debug().Str("table", name).Int("rows", len(table.Rows())).Msg("table exported")
	}
	return workbook, nil
}

// tableNames lists base tables through the dialect's catalog query
func (e *Exporter) tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, e.dialect.TablesQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return names, nil
}

// exportTable reads all rows of one table in result-set order
func (e *Exporter) exportTable(ctx context.Context, db *sql.DB, name string) (*model.Table, error) {
	query := "SELECT * FROM " + e.dialect.QuoteIdentifier(name)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	table := model.NewTable(name)
	declared := make([]string, len(columnTypes))
	for i, ct := range columnTypes {
		if err := table.AddField(model.NewField(ct.Name(), model.FieldTypeText)); err != nil {
			return nil, err
		}
		declared[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	dest := make([]any, len(columnTypes))
	ptrs := make([]any, len(columnTypes))
	for i := range dest {
		ptrs[i] = &dest[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		values := make([]any, len(dest))
		for i, v := range dest {
			values[i] = displayValue(v, declared[i])
		}
		table.AddRow(values...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return table, nil
}

// displayValue converts a scanned value into its exported form: numbers and
// dates become text, booleans stay bool and NULL stays nil.
// Integer 0/1 from a column declared BOOLEAN is reported as bool.
func displayValue(v any, declaredType string) any {
	isBoolColumn := declaredType == "BOOLEAN" || declaredType == "BOOL"

	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case int64:
		if isBoolColumn && (val == 0 || val == 1) {
			return val == 1
		}
		return strconv.FormatInt(val, 10)
	case int32:
		return displayValue(int64(val), declaredType)
	case int:
		return displayValue(int64(val), declaredType)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return model.FormatNumber(val)
	case float32:
		return model.FormatNumber(float64(val))
	case time.Time:
		return model.FormatTime(val)
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
