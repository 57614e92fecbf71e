// Package migrations contains the schema migration units of the directory
// database. Units are applied in name order, so the names must sort in the
// order the changes were introduced.
package migrations

import (
	"go.hackfix.me/curator/db/migrator"
)

// Registry returns a registry with all known migration units.
func Registry() (*migrator.Registry, error) {
	return migrator.NewRegistry(
		AddHeroFields(),
		AddSiteFlagsFields(),
	)
}
