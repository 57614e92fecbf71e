package migrations

import (
	"time"

	"go.hackfix.me/curator/db/migrator"
)

const (
	// HotCount is the number of top sites flagged as hot when the flags are
	// introduced.
	HotCount = 3
	// HotDuration is how long the initial hot flag lasts.
	HotDuration = 30 * 24 * time.Hour
	// NewWindow is how recently a site must have been created to be flagged as
	// new, and how long the initial new flag lasts.
	NewWindow = 7 * 24 * time.Hour
)

// AddSiteFlagsFields adds the hot and new promotion flags, their expiry times
// and the tutorial link to sites. The top sites by display order are flagged
// as hot, and recently created sites as new.
func AddSiteFlagsFields() *migrator.ColumnUnit {
	return &migrator.ColumnUnit{
		UnitName: "add_site_flags_fields",
		Desc:     "add hot/new flags and tutorial URL to sites",
		Columns: []migrator.ColumnAdd{
			{Table: "sites", Column: "is_hot", Type: "BOOLEAN", Default: "0"},
			{Table: "sites", Column: "is_new", Type: "BOOLEAN", Default: "0"},
			{Table: "sites", Column: "hot_until", Type: "DATETIME"},
			{Table: "sites", Column: "new_until", Type: "DATETIME"},
			{Table: "sites", Column: "tutorial_url", Type: "TEXT"},
		},
		Backfills: []migrator.Backfill{
			{
				Description: "flag top sites as hot",
				Statement: `UPDATE sites
					SET is_hot = 1, hot_until = ?
					WHERE hot_until IS NULL
					  AND id IN (
					    SELECT id FROM sites
					    ORDER BY displayOrder ASC, createdAt DESC
					    LIMIT ?
					  )`,
				Args: func(now time.Time) []any {
					return []any{now.Add(HotDuration), HotCount}
				},
			},
			{
				Description: "flag recent sites as new",
				Statement: `UPDATE sites
					SET is_new = 1, new_until = ?
					WHERE new_until IS NULL AND createdAt >= ?`,
				Args: func(now time.Time) []any {
					return []any{now.Add(NewWindow), now.Add(-NewWindow)}
				},
			},
		},
		Atomic: true,
	}
}
