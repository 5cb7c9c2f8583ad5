// Package dbcheck smoke-tests SQLite access: an in-memory round trip to
// prove the driver works, and an inspection mode for an existing database
// file.
package dbcheck

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"github.com/yaklabco/envdoctor/internal/log"
)

const driverName = "sqlite"

const sampleRowLimit = 5

// Smoke opens an in-memory database, creates a table, inserts a row, and
// reads it back. Results print as ✓/✗ lines to out; the first failure is
// also returned.
func Smoke(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "SQLite Check:")

	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return fail(out, "opening in-memory database", err)
	}
	defer func() { _ = db.Close() }()

	var version string
	if err := db.QueryRowContext(ctx, "SELECT sqlite_version()").Scan(&version); err != nil {
		return fail(out, "querying sqlite version", err)
	}
	fmt.Fprintf(out, "SQLite Version: %s\n", version)

	if _, err := db.ExecContext(ctx, "CREATE TABLE test (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		return fail(out, "creating table", err)
	}
	if _, err := db.ExecContext(ctx, "INSERT INTO test (name) VALUES ('test')"); err != nil {
		return fail(out, "inserting row", err)
	}

	var (
		id   int64
		name string
	)
	if err := db.QueryRowContext(ctx, "SELECT id, name FROM test").Scan(&id, &name); err != nil {
		return fail(out, "selecting row", err)
	}

	fmt.Fprintf(out, "✓ SQLite test query: (%d, %s)\n", id, name)
	return nil
}

// Inspect reports on an existing database file: whether it exists, which
// tables it holds, per-table row counts, and sample rows from the first
// table. A missing file is reported, not an error.
func Inspect(ctx context.Context, path string, out io.Writer) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	fmt.Fprintf(out, "Checking database at: %s\n", absPath)

	if _, err := os.Stat(path); err != nil {
		fmt.Fprintln(out, "File exists: false")
		fmt.Fprintln(out, "Database file does not exist!")
		return nil
	}
	fmt.Fprintln(out, "File exists: true")

	db, err := sql.Open(driverName, path)
	if err != nil {
		return fail(out, "opening database", err)
	}
	defer func() { _ = db.Close() }()

	tables, err := listTables(ctx, db)
	if err != nil {
		return fail(out, "listing tables", err)
	}

	fmt.Fprintln(out, "\nAll tables in database:")
	for _, table := range tables {
		count, err := countRows(ctx, db, table)
		if err != nil {
			fmt.Fprintf(out, "- %s (row count unavailable: %v)\n", table, err)
			continue
		}
		fmt.Fprintf(out, "- %s (%d rows)\n", table, count)
	}
	if len(tables) == 0 {
		fmt.Fprintln(out, "(none)")
		return nil
	}

	slog.Debug("inspected database", log.Path, path, log.Count, len(tables))

	return sampleRows(ctx, db, tables[0], out)
}

func listTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func countRows(ctx context.Context, db *sql.DB, table string) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))).Scan(&count)
	return count, err
}

// sampleRows prints up to sampleRowLimit rows of the given table.
func sampleRows(ctx context.Context, db *sql.DB, table string, out io.Writer) error {
	rows, err := db.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), sampleRowLimit))
	if err != nil {
		return fail(out, "sampling rows", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return fail(out, "reading columns", err)
	}

	fmt.Fprintf(out, "\nSample rows from %s (first %d):\n", table, sampleRowLimit)
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return fail(out, "scanning row", err)
		}
		fmt.Fprintf(out, "  %s\n", formatRow(values))
	}
	return rows.Err()
}

func formatRow(values []any) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		switch val := v.(type) {
		case nil:
			parts = append(parts, "NULL")
		case []byte:
			parts = append(parts, string(val))
		default:
			parts = append(parts, fmt.Sprint(val))
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// quoteIdent quotes a table name coming out of sqlite_master.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func fail(out io.Writer, what string, err error) error {
	fmt.Fprintf(out, "✗ SQLite error: %s: %v\n", what, err)
	return fmt.Errorf("%s: %w", what, err)
}
