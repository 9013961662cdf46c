// Package duck queries newline delimited json with an in-memory duckdb.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"tamis/catalog"
	nt "tamis/entity"
)

// Column is a field of the loaded table.
type Column struct {
	Name string
	Type string
}

// Duck holds a loaded table and the current filter.
type Duck struct {
	db     *sql.DB
	logger nt.Logger
	where  string
	args   []any
}

// New opens an in-memory database; the caller is expected to have registered the driver.
func New(lgr nt.Logger) (dk *Duck, err error) {

	db, err := sql.Open("duckdb", "")
	if err != nil {
		err = errors.Wrapf(err, "failed to open memo duck")
		return
	}

	dk = &Duck{
		db:     db,
		logger: lgr,
	}

	return
}

func (dk *Duck) Close() {
	dk.db.Close()
}

// Load a file, letting duckdb infer the schema.
func (dk *Duck) Load(ctx context.Context, path string) (err error) {

	create := fmt.Sprintf(`
		CREATE OR REPLACE TABLE logs AS
		SELECT * FROM read_json_auto('%s', format='newline_delimited')
	`, strings.ReplaceAll(path, "'", "''"))

	_, err = dk.db.ExecContext(ctx, create)
	if err != nil {
		err = errors.Wrapf(err, "failed to load %s", path)
		return
	}

	dk.logger.Info(ctx, "loaded logs", "path", path)
	return
}

// SetView sets the filter applied by GetView and GetPage, nil for none.
func (dk *Duck) SetView(filter nt.Node) (err error) {

	if filter == nil {
		dk.where, dk.args = "", nil
		return
	}

	where, args, err := Where(filter)
	if err != nil {
		return
	}

	dk.where, dk.args = where, args
	return
}

// GetView returns the table's columns and the number of rows passing the filter.
func (dk *Duck) GetView(ctx context.Context) (columns []Column, count int, err error) {

	columns, err = dk.columns(ctx)
	if err != nil {
		return
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM logs %s", dk.whereClause())
	err = dk.db.QueryRowContext(ctx, query, dk.args...).Scan(&count)
	if err != nil {
		err = errors.Wrapf(err, "failed to count logs")
	}
	return
}

// GetPage of rows passing the filter, values in column order.
func (dk *Duck) GetPage(ctx context.Context, offset, size int) (rows [][]any, err error) {

	query := fmt.Sprintf("SELECT * FROM logs %s LIMIT %d OFFSET %d", dk.whereClause(), size, offset)

	result, err := dk.db.QueryContext(ctx, query, dk.args...)
	if err != nil {
		err = errors.Wrapf(err, "failed to query logs")
		return
	}
	defer result.Close()

	count, err := columnCount(result)
	if err != nil {
		return
	}

	for result.Next() {
		var vals []any
		vals, err = scanRow(result, count)
		if err != nil {
			err = errors.Wrapf(err, "failed to scan row")
			return
		}
		rows = append(rows, vals)
	}

	err = result.Err()
	err = errors.Wrapf(err, "error iterating rows")
	return
}

// Catalog offers the loaded columns as filterable fields.
func (dk *Duck) Catalog(ctx context.Context) (cat catalog.Catalog, err error) {

	columns, err := dk.columns(ctx)
	if err != nil {
		return
	}

	cat = FieldsCatalog(columns)
	return
}

var (
	orderedOps = []string{nt.OpIs, nt.OpIsNot, nt.OpGreater, nt.OpLess, nt.OpContains, nt.OpMatches}
	textOps    = []string{nt.OpIs, nt.OpIsNot, nt.OpContains, nt.OpMatches}
)

// FieldsCatalog maps columns to catalog fields, offering comparisons on numbers and times only.
func FieldsCatalog(columns []Column) catalog.Catalog {

	cat := make(catalog.Catalog, len(columns))
	for i, col := range columns {
		ops := textOps
		if ordered(col.Type) {
			ops = orderedOps
		}
		cat[i] = nt.Field{Name: col.Name, Operators: ops}
	}
	return cat
}

// unexported

func ordered(typ string) bool {

	switch {
	case strings.Contains(typ, "INT"),
		strings.HasPrefix(typ, "DOUBLE"),
		strings.HasPrefix(typ, "FLOAT"),
		strings.HasPrefix(typ, "DECIMAL"),
		strings.HasPrefix(typ, "TIMESTAMP"),
		typ == "DATE":
		return true
	}
	return false
}

func (dk *Duck) whereClause() string {

	if dk.where == "" {
		return ""
	}
	return "WHERE " + dk.where
}

func (dk *Duck) columns(ctx context.Context) (columns []Column, err error) {

	rows, err := dk.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = 'logs'
		ORDER BY ordinal_position
	`)
	if err != nil {
		err = errors.Wrapf(err, "failed to query schema")
		return
	}
	defer rows.Close()

	for rows.Next() {
		var col Column
		if err = rows.Scan(&col.Name, &col.Type); err != nil {
			err = errors.Wrapf(err, "failed to scan field")
			return
		}
		columns = append(columns, col)
	}

	err = rows.Err()
	err = errors.Wrapf(err, "error iterating schema")
	return
}

func columnCount(rows *sql.Rows) (int, error) {
	cols, err := rows.Columns()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get cols from query rows")
	}
	return len(cols), nil
}

func scanRow(rows *sql.Rows, columnCount int) ([]any, error) {
	vals := make([]any, columnCount)
	ptrs := make([]any, columnCount)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	err := rows.Scan(ptrs...)
	return vals, err
}
