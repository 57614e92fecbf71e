package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	//nolint:revive,nolintlint // Idiomatic way of loading DB libraries.
	_ "github.com/glebarez/go-sqlite"

	"go.hackfix.me/curator/db/migrations"
	"go.hackfix.me/curator/db/migrator"
	"go.hackfix.me/curator/db/types"
)

// DB wraps sql.DB with additional context and migration functionality.
type DB struct {
	*sql.DB
	ctx      context.Context
	timeNow  func() time.Time
	path     string
	registry *migrator.Registry
}

var _ types.Schema = (*DB)(nil)

// Open creates and configures a new SQLite database connection. The schema
// isn't created or migrated, see Init and Migrate.
func Open(ctx context.Context, path string, timeNow func() time.Time) (*DB, error) {
	var d *DB
	if strings.Contains(path, "mode=memory") || strings.Contains(path, ":memory:") {
		defer func() {
			if d != nil {
				// See https://github.com/mattn/go-sqlite3#faq
				d.SetMaxIdleConns(10)
				d.SetConnMaxLifetime(time.Duration(math.Inf(1)))
			}
		}()
	}

	sqliteDB, err := sql.Open("sqlite", withPragmas(path))
	if err != nil {
		return nil, fmt.Errorf("failed opening SQLite database: %w", err)
	}

	registry, err := migrations.Registry()
	if err != nil {
		return nil, err
	}

	if timeNow == nil {
		timeNow = time.Now
	}
	d = &DB{DB: sqliteDB, ctx: ctx, path: path, timeNow: timeNow, registry: registry}

	if err = d.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed connecting to SQLite database: %w", err)
	}

	return d, nil
}

// withPragmas appends the connection pragmas to the DSN, so that they're
// applied to every connection in the pool.
func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Init creates the base schema, seeds the initial records and applies all
// migrations. It's safe to call on an already initialized database.
func (d *DB) Init(ctx context.Context, admin Admin, logger *slog.Logger) (*migrator.Report, error) {
	dblogger := logger.With("path", d.path)
	dblogger.Debug("initializing database")

	if err := d.CreateSchema(ctx); err != nil {
		return nil, err
	}

	if err := seed(ctx, d, admin, dblogger); err != nil {
		return nil, err
	}

	report, err := d.Migrate(ctx, logger)
	if err != nil {
		return report, err
	}

	dblogger.Info("database initialized")

	return report, nil
}

// Migrate applies all pending migrations, and logs the outcome of each one.
func (d *DB) Migrate(ctx context.Context, logger *slog.Logger) (*migrator.Report, error) {
	mlogger := logger.With("component", "migrator")
	report, err := migrator.NewRunner(d.registry, mlogger).Run(ctx, d)
	if report != nil {
		report.Log(ctx, mlogger)
	}
	if err != nil {
		return report, fmt.Errorf("failed running migrations: %w", err)
	}

	return report, nil
}

// Registry returns the migration units known to this database.
func (d *DB) Registry() *migrator.Registry {
	return d.registry
}

// Path returns the path the database was opened with.
func (d *DB) Path() string {
	return d.path
}

// NewContext returns a new child context of the main database context.
func (d *DB) NewContext() context.Context {
	ctx, _ := context.WithCancel(d.ctx) //nolint:govet // Canceled together with the parent.
	return ctx
}

// TimeNow returns the current system time.
func (d *DB) TimeNow() time.Time {
	return d.timeNow()
}

// Columns returns the columns of table.
func (d *DB) Columns(ctx context.Context, table string) ([]types.Column, error) {
	return tableColumns(ctx, d, table)
}

// Tx runs fn in a transaction.
func (d *DB) Tx(ctx context.Context, fn func(types.Schema) error) (err error) {
	sqlTx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed starting transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := sqlTx.Rollback(); rbErr != nil {
				err = fmt.Errorf("%w; failed rolling back transaction: %w", err, rbErr)
			}
			return
		}
		if cErr := sqlTx.Commit(); cErr != nil {
			err = fmt.Errorf("failed committing transaction: %w", cErr)
		}
	}()

	return fn(&tx{sqlTx: sqlTx, db: d})
}

// tx is a Schema scoped to a single transaction.
type tx struct {
	sqlTx *sql.Tx
	db    *DB
}

var _ types.Schema = (*tx)(nil)

func (t *tx) NewContext() context.Context { return t.db.NewContext() }
func (t *tx) TimeNow() time.Time          { return t.db.TimeNow() }

func (t *tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.sqlTx.ExecContext(ctx, query, args...)
}

func (t *tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.sqlTx.QueryContext(ctx, query, args...)
}

func (t *tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.sqlTx.QueryRowContext(ctx, query, args...)
}

func (t *tx) Columns(ctx context.Context, table string) ([]types.Column, error) {
	return tableColumns(ctx, t, table)
}

func (t *tx) Tx(_ context.Context, fn func(types.Schema) error) error {
	return fn(t)
}

func tableColumns(ctx context.Context, q types.Querier, table string) (cols []types.Column, rerr error) {
	rows, err := q.QueryContext(ctx,
		`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?)`, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err = rows.Close(); err != nil {
			rerr = fmt.Errorf("failed closing table info rows: %w", err)
		}
	}()

	cols = make([]types.Column, 0)
	for rows.Next() {
		var (
			c  types.Column
			pk int
		)
		if err = rows.Scan(&c.Name, &c.Type, &c.NotNull, &c.Default, &pk); err != nil {
			return nil, types.ScanError{ModelName: "column", Err: err}
		}
		c.PrimaryKey = pk > 0
		cols = append(cols, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating over table info rows: %w", err)
	}

	return cols, nil
}
