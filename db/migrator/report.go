package migrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Status is the outcome of a single unit within a run.
type Status string

// Valid statuses.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Result is the outcome of a single unit.
type Result struct {
	Name     string
	Status   Status
	Err      error
	Duration time.Duration
}

// Report summarizes a migration run. Details are in the order the units were
// processed.
type Report struct {
	Total    int
	Executed int
	Skipped  int
	Failed   int
	Details  []Result
}

func (r *Report) add(res Result) {
	switch res.Status {
	case StatusSuccess:
		r.Executed++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Details = append(r.Details, res)
}

// Err returns the errors of all failed units joined together, or nil if no
// unit failed.
func (r *Report) Err() error {
	if r == nil || r.Failed == 0 {
		return nil
	}

	var errs []error
	for _, res := range r.Details {
		if res.Status == StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}

	return errors.Join(errs...)
}

// Log writes one record per processed unit, followed by a summary record.
func (r *Report) Log(ctx context.Context, logger *slog.Logger) {
	for _, res := range r.Details {
		switch res.Status {
		case StatusFailed:
			logger.ErrorContext(ctx, "migration failed",
				"name", res.Name, "duration", res.Duration, "error", res.Err)
		case StatusSuccess:
			logger.InfoContext(ctx, "migration applied", "name", res.Name, "duration", res.Duration)
		case StatusSkipped:
			logger.DebugContext(ctx, "migration already applied", "name", res.Name)
		}
	}

	level := slog.LevelInfo
	if r.Failed > 0 {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "migrations finished",
		"total", r.Total, "executed", r.Executed, "skipped", r.Skipped, "failed", r.Failed)
}
