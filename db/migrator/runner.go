package migrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.hackfix.me/curator/db/types"
)

// Runner applies the pending units of a Registry.
type Runner struct {
	registry *Registry
	logger   *slog.Logger
	clock    func() time.Time
}

// NewRunner returns a Runner for the units in registry.
func NewRunner(registry *Registry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{registry: registry, logger: logger, clock: time.Now}
}

// Run applies every registered unit that isn't recorded in the ledger, in name
// order. A unit that fails is reported and left unrecorded, and the run
// continues with the next unit.
//
// Run returns an error only if the ledger is unavailable (a
// *LedgerUnavailableError) or ctx is done, in which case the report covers the
// units processed so far. Failed units are only part of the report, see
// Report.Err.
func (r *Runner) Run(ctx context.Context, s types.Schema) (*Report, error) {
	ledger := NewLedger(s)
	report := &Report{Details: []Result{}}
	if err := ledger.EnsureTable(ctx); err != nil {
		return report, err
	}

	units := r.registry.List()
	report.Total = len(units)

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := u.Name()
		done, err := ledger.HasRun(ctx, name)
		if err != nil {
			return report, err
		}
		if done {
			report.add(Result{Name: name, Status: StatusSkipped})
			continue
		}

		r.logger.Debug("applying migration", "name", name, "description", u.Description())
		start := r.clock()
		err = u.Apply(ctx, s)
		res := Result{Name: name, Duration: r.clock().Sub(start)}
		if err != nil {
			res.Status = StatusFailed
			res.Err = err
			report.add(res)
			continue
		}

		if err = ledger.Record(ctx, name); err != nil {
			var dupErr *DuplicateNameError
			if !errors.As(err, &dupErr) {
				return report, err
			}
			res.Status = StatusFailed
			res.Err = err
			report.add(res)
			continue
		}

		res.Status = StatusSuccess
		report.add(res)
	}

	return report, nil
}

// Pending returns the registered units that aren't recorded in the ledger, in
// the order they would be applied.
func (r *Runner) Pending(ctx context.Context, q types.Querier) ([]Migration, error) {
	ledger := NewLedger(q)
	if err := ledger.EnsureTable(ctx); err != nil {
		return nil, err
	}

	pending := []Migration{}
	for _, u := range r.registry.List() {
		done, err := ledger.HasRun(ctx, u.Name())
		if err != nil {
			return nil, err
		}
		if !done {
			pending = append(pending, u)
		}
	}

	return pending, nil
}
