// Package migrator evolves the database schema with one-time migration units.
//
// Units are Go values collected in a [Registry] and applied in name order by a
// [Runner]. Every unit that completes successfully is recorded in a ledger
// table (schema_migrations), so it's skipped on subsequent runs. A failing unit
// isn't recorded and doesn't stop the run: it's reported, and retried on the
// next run. Only an unavailable ledger aborts a run, since without it there's
// no way of knowing what was already applied.
//
// Most units add columns to existing tables and backfill them. [ColumnUnit]
// implements this pattern: it only issues ALTER TABLE for columns that don't
// exist yet, and its backfill statements only touch rows whose new columns are
// still unset, so a unit can be safely re-applied after a partial failure.
package migrator
