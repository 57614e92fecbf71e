package types

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Querier exposes only methods for running SQL queries, and some helper functions.
type Querier interface {
	NewContext() context.Context
	TimeNow() time.Time
	ExecContext(ctx context.Context, sql string, arguments ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Schema is a Querier that can also introspect table structure and run a
// function inside a scoped transaction. It's the handle migration units work
// against.
type Schema interface {
	Querier
	// Columns returns the columns of table in declaration order. An empty
	// slice is returned if the table doesn't exist.
	Columns(ctx context.Context, table string) ([]Column, error)
	// Tx runs fn inside a transaction. The transaction is committed if fn
	// returns nil, and rolled back otherwise. Nested calls reuse the outer
	// transaction.
	Tx(ctx context.Context, fn func(Schema) error) error
}

// Column describes a single table column as reported by SQLite.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	Default    sql.Null[string]
	PrimaryKey bool
}

// HasColumn returns true if cols contains a column with the given name.
// SQLite column names are case-insensitive.
func HasColumn(cols []Column, name string) bool {
	return slices.ContainsFunc(cols, func(c Column) bool {
		return strings.EqualFold(c.Name, name)
	})
}

// Filter is used to dynamically modify queries.
type Filter struct {
	Where string
	Args  []any
	Limit int
}

// NewFilter creates a new query filter.
func NewFilter(where string, args []any) *Filter {
	return &Filter{Where: where, Args: args}
}

// And joins f2 with f1 using an AND condition.
func (f1 *Filter) And(f2 *Filter) *Filter {
	return &Filter{
		Where: fmt.Sprintf("%s AND %s", f1.Where, f2.Where),
		Args:  slices.Concat(f1.Args, f2.Args),
	}
}

// Or joins f2 with f1 using an OR condition.
func (f1 *Filter) Or(f2 *Filter) *Filter {
	return &Filter{
		Where: fmt.Sprintf("%s OR %s", f1.Where, f2.Where),
		Args:  slices.Concat(f1.Args, f2.Args),
	}
}
