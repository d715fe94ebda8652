package sheetdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/nao1215/sheetdb/domain/model"
)

// OpenFiles loads spreadsheet files into a new in-memory SQLite database.
//
// The paths parameter can be a mix of:
//   - Individual files (.xlsx, .csv, .tsv, .parquet or their compressed variants)
//   - Directories (supported files directly inside are loaded, subdirectories are not)
//
// Every sheet becomes a table, typed from the row below its header, and all
// tables are loaded in one transaction. Two sheets with the same table name
// are rejected with ErrDuplicateTable.
//
// Example usage:
//
//	db, err := sheetdb.OpenFiles("people.xlsx", "data/")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer db.Close()
//
//	rows, err := db.Query(`SELECT name, age FROM people WHERE active ORDER BY age DESC`)
func OpenFiles(paths ...string) (*sql.DB, error) {
	return OpenFilesContext(context.Background(), paths...)
}

// OpenFilesContext is OpenFiles with a context for ingestion and loading.
func OpenFilesContext(ctx context.Context, paths ...string) (*sql.DB, error) {
	workbook, err := ingestPaths(ctx, paths)
	if err != nil {
		return nil, err
	}

	db, err := Open(ctx, DatabaseConfig{Driver: DriverSQLite})
	if err != nil {
		return nil, err
	}
	if err := NewLoader(WithDialect(SQLiteDialect)).Load(ctx, db, workbook); err != nil {
		_ = db.Close() // Ignore close error, the load error is more important
		return nil, err
	}
	return db, nil
}

// DumpDatabase exports every table of a SQLite database, such as one returned
// by OpenFiles, and writes it with Dump.
//
// By default, the tables are written to a single XLSX workbook. You can
// optionally provide DumpOptions to choose another format and compression.
//
// Example usage:
//
//	// Export as TSV files with gzip compression
//	options := NewDumpOptions().
//		WithFormat(OutputFormatTSV).
//		WithCompression(CompressionGZ)
//	err := DumpDatabase(ctx, db, "./output", options)
func DumpDatabase(ctx context.Context, db *sql.DB, outputPath string, opts ...DumpOptions) error {
	options := NewDumpOptions()
	if len(opts) > 0 {
		options = opts[0]
	}

	workbook, err := NewExporter(WithDialect(SQLiteDialect)).Export(ctx, db)
	if err != nil {
		return err
	}
	return Dump(workbook, outputPath, options)
}

// ingestPaths ingests every file named by paths into one workbook
func ingestPaths(ctx context.Context, paths []string) (*model.Workbook, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one path must be provided")
	}

	files, err := collectFiles(paths)
	if err != nil {
		return nil, err
	}

	combined := model.NewWorkbook()
	for _, path := range files {
		src, err := OpenSource(path)
		if err != nil {
			return nil, err
		}
		workbook, err := Ingest(ctx, src)
		if err != nil {
			return nil, err
		}
		for _, table := range workbook.Tables() {
			if err := combined.AddTable(table); err != nil {
				return nil, fmt.Errorf("failed to add table from %s: %w", path, err)
			}
		}
	}
	return combined, nil
}

// collectFiles expands directories into the supported files they contain
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, sourceUnavailable("open path", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, sourceUnavailable("read directory", path, err)
		}
		var found []string
		for _, entry := range entries {
			if entry.IsDir() || !model.IsSupportedFile(entry.Name()) {
				continue
			}
			found = append(found, filepath.Join(path, entry.Name()))
		}
		if len(found) == 0 {
			return nil, sourceUnavailable("read directory", path, fmt.Errorf("%w: no supported files found", ErrUnsupportedFormat))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}
