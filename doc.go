// Package sheetdb moves tabular data between spreadsheets and relational
// databases.
//
// A spreadsheet (an Excel workbook, a CSV or TSV file, or a Parquet file) is
// read into an in-memory model of tables and typed fields. Every column gets
// exactly one type, inferred from the cell right below its header. That sample
// row only fixes types; data starts on the row after it and every value is
// coerced to its column type. The model is then written to any
// database/sql handle inside a single transaction: all tables are dropped and
// recreated, then filled, and any failure rolls the whole load back. The
// reverse direction reads every base table of a database back into the same
// model so that it can be written out as a spreadsheet again.
//
// # Features
//
//   - Excel (XLSX), CSV, TSV and Parquet sources, plain or compressed (gzip, bzip2, xz, zstandard)
//   - Column types INTEGER, FLOAT, TEXT, DATE, BOOLEAN and UNKNOWN
//   - SQLite, MySQL and PostgreSQL dialects for identifier quoting, placeholders and the table catalog
//   - All-or-nothing loads with typed errors naming the failing table and row
//   - XLSX, CSV, TSV and Parquet output
//
// # Basic Usage
//
// Ingest a file, then load it into an injected database handle:
//
//	src, err := sheetdb.OpenSource("people.xlsx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	workbook, err := sheetdb.Ingest(ctx, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := sheetdb.Open(ctx, sheetdb.DatabaseConfig{Driver: "postgres", Database: "sales"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	loader := sheetdb.NewLoader(sheetdb.WithDialect(sheetdb.PostgresDialect))
//	if err := loader.Load(ctx, db, workbook); err != nil {
//	    var loadErr *sheetdb.LoadError
//	    if errors.As(err, &loadErr) {
//	        log.Printf("nothing was written, table %s failed", loadErr.Table())
//	    }
//	    log.Fatal(err)
//	}
//
// Export the database and write it as a workbook:
//
//	exported, err := sheetdb.NewExporter(sheetdb.WithDialect(sheetdb.PostgresDialect)).Export(ctx, db)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = sheetdb.Dump(exported, "backup.xlsx", sheetdb.NewDumpOptions())
//
// # Querying Files
//
// OpenFiles loads files into an in-memory SQLite database for ad-hoc SQL:
//
//	db, err := sheetdb.OpenFiles("people.xlsx", "data/")
//
// # Type Inference
//
// The row right after the header decides the type of each column:
//
//   - Empty cells and error cells give UNKNOWN (stored as VARCHAR)
//   - Text gives TEXT, dates give DATE, booleans give BOOLEAN
//   - Numbers give INTEGER when within 1e-10 of a whole number, FLOAT otherwise
//
// INTEGER columns round later values half away from zero, so 25.5 is stored
// as 26. Values that cannot be coerced are stored as NULL. A row is kept only
// when at least one of its values is not NULL.
//
// # Logging
//
// Components log through zerolog when a logger is passed with WithLogger;
// by default nothing is logged.
package sheetdb
