package migrator

import (
	"context"

	"go.hackfix.me/curator/db/types"
)

// Migration is a single schema or data change that should be applied exactly
// once. The name is the unique identity of the unit, and determines the order
// in which units are applied.
type Migration interface {
	Name() string
	Description() string
	// Apply performs the change. It must be safe to call again after a failed
	// attempt.
	Apply(ctx context.Context, s types.Schema) error
}

// Func adapts a plain function into a Migration.
type Func struct {
	UnitName string
	Desc     string
	Fn       func(ctx context.Context, s types.Schema) error
}

var _ Migration = (*Func)(nil)

// NewFunc returns a Migration that calls fn when applied.
func NewFunc(name, desc string, fn func(ctx context.Context, s types.Schema) error) *Func {
	return &Func{UnitName: name, Desc: desc, Fn: fn}
}

// Name returns the unique name of the migration.
func (f *Func) Name() string { return f.UnitName }

// Description returns a human readable summary of the migration.
func (f *Func) Description() string { return f.Desc }

// Apply calls the wrapped function.
func (f *Func) Apply(ctx context.Context, s types.Schema) error {
	return f.Fn(ctx, s)
}
