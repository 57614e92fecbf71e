package migrator

import (
	"slices"
	"strings"
)

// Registry is the static, ordered set of known migration units.
type Registry struct {
	units []Migration
}

// NewRegistry returns a Registry containing the given units. It returns an
// error if a unit has an empty name, or if two units share the same name.
func NewRegistry(units ...Migration) (*Registry, error) {
	r := &Registry{}
	for _, u := range units {
		if err := r.Register(u); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Register adds a unit to the registry.
func (r *Registry) Register(u Migration) error {
	if u == nil {
		return &RegistrationError{Msg: "unit is nil"}
	}
	name := u.Name()
	if strings.TrimSpace(name) == "" {
		return &RegistrationError{Msg: "name is empty"}
	}
	if slices.ContainsFunc(r.units, func(m Migration) bool { return m.Name() == name }) {
		return &RegistrationError{Name: name, Msg: "name is already registered"}
	}
	r.units = append(r.units, u)

	return nil
}

// List returns all registered units sorted by name in ascending byte order.
// The returned slice is a copy, so callers may modify it freely.
func (r *Registry) List() []Migration {
	units := slices.Clone(r.units)
	slices.SortFunc(units, func(a, b Migration) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return units
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	return len(r.units)
}
