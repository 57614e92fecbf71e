package queries

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.hackfix.me/curator/db/types"
)

// Tables returns the names of all user tables in the database, sorted by name.
// SQLite internal tables are excluded.
func Tables(ctx context.Context, d types.Querier) (tables []string, rerr error) {
	rows, err := d.QueryContext(ctx, `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing tables rows: %w", err)
		}
	}()

	tables = make([]string, 0)
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// TableColumns returns the columns of table. It returns an error if the table
// doesn't exist.
func TableColumns(ctx context.Context, d types.Schema, table string) ([]types.Column, error) {
	cols, err := d.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, types.NoResultError{ModelName: "table", ID: table}
	}

	return cols, nil
}

// SampleRows returns up to limit rows of table, with the values of the given
// columns rendered as strings. NULL values are rendered as "NULL".
func SampleRows(
	ctx context.Context, d types.Querier, table string, cols []types.Column, limit int,
) (rows [][]string, rerr error) {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c.Name)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s LIMIT ?`,
		strings.Join(quoted, ", "), quoteIdent(table))

	res, err := d.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, types.LoadError{ModelName: table, Err: err}
	}
	defer func() {
		if err = res.Close(); err != nil {
			rerr = fmt.Errorf("failed closing %s rows: %w", table, err)
		}
	}()

	rows = make([][]string, 0)
	for res.Next() {
		vals := make([]sql.Null[string], len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err = res.Scan(ptrs...); err != nil {
			return nil, types.ScanError{ModelName: table, Err: err}
		}

		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = "NULL"
			if v.Valid {
				row[i] = v.V
			}
		}
		rows = append(rows, row)
	}

	if err = res.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over %s rows: %w", table, err)
	}

	return rows, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
