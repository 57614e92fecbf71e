package migrations

import (
	"time"

	"go.hackfix.me/curator/db/migrator"
)

// Default hero banner texts for existing settings records.
const (
	DefaultHeroTitle    = "Curated picks"
	DefaultHeroSubtitle = "Discover the best AI, reading and knowledge management tools to boost your productivity"
)

// AddHeroFields adds the hero banner title and subtitle to the site settings.
func AddHeroFields() *migrator.ColumnUnit {
	return &migrator.ColumnUnit{
		UnitName: "add_hero_fields",
		Desc:     "add hero title and subtitle to site settings",
		Columns: []migrator.ColumnAdd{
			{Table: "site_settings", Column: "hero_title", Type: "TEXT"},
			{Table: "site_settings", Column: "hero_subtitle", Type: "TEXT"},
		},
		Backfills: []migrator.Backfill{
			{
				Description: "default hero texts",
				Statement: `UPDATE site_settings
					SET hero_title = COALESCE(hero_title, ?),
					    hero_subtitle = COALESCE(hero_subtitle, ?)
					WHERE hero_title IS NULL OR hero_subtitle IS NULL`,
				Args: func(time.Time) []any {
					return []any{DefaultHeroTitle, DefaultHeroSubtitle}
				},
			},
		},
	}
}
