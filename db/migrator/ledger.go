package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.hackfix.me/curator/db/types"
)

// LedgerTable is the name of the table that records applied migrations.
const LedgerTable = "schema_migrations"

// Entry is a single ledger record.
type Entry struct {
	ID         uint64
	Name       string
	ExecutedAt time.Time
}

// Ledger is the persistent record of which migration units were applied.
// Entries are only ever inserted.
type Ledger struct {
	q types.Querier
}

// NewLedger returns a Ledger stored in the database behind q.
func NewLedger(q types.Querier) *Ledger {
	return &Ledger{q: q}
}

// EnsureTable creates the ledger table if it doesn't exist. It's safe to call
// on every startup.
func (l *Ledger) EnsureTable(ctx context.Context) error {
	_, err := l.q.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL UNIQUE,
		executed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, LedgerTable))
	if err != nil {
		return &LedgerUnavailableError{Op: "creating ledger table", Err: err}
	}

	return nil
}

// HasRun returns true if a migration with the given name was recorded.
func (l *Ledger) HasRun(ctx context.Context, name string) (bool, error) {
	var one int
	err := l.q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT 1 FROM %s WHERE name = ?`, LedgerTable), name).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &LedgerUnavailableError{
			Op: fmt.Sprintf("checking migration '%s'", name), Err: err,
		}
	}

	return true, nil
}

// Record marks the migration with the given name as applied. It returns a
// *DuplicateNameError if the name was already recorded, and a
// *LedgerUnavailableError for any other failure.
func (l *Ledger) Record(ctx context.Context, name string) error {
	_, err := l.q.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, executed_at) VALUES (?, ?)`, LedgerTable),
		name, l.q.TimeNow().UTC())
	if err == nil {
		return nil
	}

	var dupErr *types.DuplicateError
	if errors.As(types.Err("migration", name, err), &dupErr) {
		return &DuplicateNameError{Name: name, Err: err}
	}

	return &LedgerUnavailableError{Op: fmt.Sprintf("recording migration '%s'", name), Err: err}
}

// Entries returns all ledger records ordered by name.
func (l *Ledger) Entries(ctx context.Context) (entries []Entry, rerr error) {
	rows, err := l.q.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, name, executed_at FROM %s ORDER BY name ASC`, LedgerTable))
	if err != nil {
		return nil, &LedgerUnavailableError{Op: "reading ledger entries", Err: err}
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing ledger rows: %w", err)
		}
	}()

	entries = make([]Entry, 0)
	for rows.Next() {
		var (
			e          Entry
			executedAt sql.Null[time.Time]
		)
		if err = rows.Scan(&e.ID, &e.Name, &executedAt); err != nil {
			return nil, types.ScanError{ModelName: "migration", Err: err}
		}
		e.ExecutedAt = executedAt.V
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over ledger rows: %w", err)
	}

	return entries, nil
}
