package migrator

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.hackfix.me/curator/db/types"
)

var identRx = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ColumnAdd describes a column that should exist on a table.
type ColumnAdd struct {
	Table  string
	Column string
	// Type is the SQLite column type, e.g. TEXT or BOOLEAN.
	Type string
	// Default is an optional SQL literal used in the DEFAULT clause.
	Default string
}

// Statement returns the ALTER TABLE statement that adds the column.
func (c ColumnAdd) Statement() string {
	stmt := fmt.Sprintf(`ALTER TABLE "%s" ADD COLUMN "%s" %s`, c.Table, c.Column, c.Type)
	if c.Default != "" {
		stmt += " DEFAULT " + c.Default
	}
	return stmt
}

// Apply adds the column if the table doesn't have it yet. It returns true if
// the column was added, and false if it was already present.
func (c ColumnAdd) Apply(ctx context.Context, s types.Schema) (added bool, err error) {
	if !identRx.MatchString(c.Table) || !identRx.MatchString(c.Column) {
		return false, &DDLError{
			Table: c.Table, Column: c.Column,
			Err: types.InvalidInputError{Msg: "invalid table or column name"},
		}
	}

	cols, err := s.Columns(ctx, c.Table)
	if err != nil {
		return false, &SchemaIntrospectionError{Table: c.Table, Err: err}
	}
	if len(cols) == 0 {
		return false, &SchemaIntrospectionError{
			Table: c.Table, Err: types.NoResultError{ModelName: "table", ID: c.Table},
		}
	}
	if types.HasColumn(cols, c.Column) {
		return false, nil
	}

	stmt := c.Statement()
	if _, err = s.ExecContext(ctx, stmt); err != nil {
		return false, &DDLError{Table: c.Table, Column: c.Column, Statement: stmt, Err: err}
	}

	return true, nil
}

// Backfill is a data update that initializes newly added columns. The
// statement must only touch rows whose new columns are still unset.
type Backfill struct {
	Description string
	Statement   string
	// Args returns the statement arguments. It receives the current time of
	// the schema handle.
	Args func(now time.Time) []any
}

// State is the progress of a ColumnUnit.
type State int

// Valid unit states.
const (
	StateNotStarted State = iota
	StateAltering
	StateAdded
	StateAlreadyPresent
	StateBackfilling
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateAltering:
		return "altering"
	case StateAdded:
		return "added"
	case StateAlreadyPresent:
		return "already present"
	case StateBackfilling:
		return "backfilling"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown (%d)", int(s))
	}
}

// Outcome describes what a ColumnUnit did.
type Outcome struct {
	State State
	// Altered is StateAdded if at least one column was created, and
	// StateAlreadyPresent if all columns existed before.
	Altered State
	// Added are the columns that were created.
	Added []string
	// Present are the columns that already existed.
	Present []string
	// RowsBackfilled is the total number of rows changed by the backfills.
	RowsBackfilled int64
}

// ColumnUnit is a migration that adds one or more columns and then runs its
// backfills. If Atomic is set, all statements run in a single transaction.
type ColumnUnit struct {
	UnitName  string
	Desc      string
	Columns   []ColumnAdd
	Backfills []Backfill
	Atomic    bool
}

var _ Migration = (*ColumnUnit)(nil)

// Name returns the unique name of the migration.
func (u *ColumnUnit) Name() string { return u.UnitName }

// Description returns a human readable summary of the migration.
func (u *ColumnUnit) Description() string { return u.Desc }

// Apply implements Migration.
func (u *ColumnUnit) Apply(ctx context.Context, s types.Schema) error {
	_, err := u.Run(ctx, s)
	return err
}

// Run applies the unit and reports its outcome.
func (u *ColumnUnit) Run(ctx context.Context, s types.Schema) (Outcome, error) {
	var out Outcome
	run := func(s types.Schema) error {
		out = Outcome{State: StateAltering}
		for _, col := range u.Columns {
			added, err := col.Apply(ctx, s)
			if err != nil {
				return err
			}
			if added {
				out.Added = append(out.Added, col.Column)
			} else {
				out.Present = append(out.Present, col.Column)
			}
		}
		out.Altered = StateAlreadyPresent
		if len(out.Added) > 0 {
			out.Altered = StateAdded
		}

		out.State = StateBackfilling
		now := s.TimeNow().UTC()
		for _, bf := range u.Backfills {
			var args []any
			if bf.Args != nil {
				args = bf.Args(now)
			}
			res, err := s.ExecContext(ctx, bf.Statement, args...)
			if err != nil {
				return &BackfillError{Description: bf.Description, Statement: bf.Statement, Err: err}
			}
			if n, err := res.RowsAffected(); err == nil {
				out.RowsBackfilled += n
			}
		}
		out.State = StateDone

		return nil
	}

	var err error
	if u.Atomic {
		err = s.Tx(ctx, run)
	} else {
		err = run(s)
	}
	if err != nil {
		out.State = StateFailed
		return out, err
	}

	return out, nil
}
