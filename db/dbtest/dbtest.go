// Package dbtest provides helpers for tests that need a database.
package dbtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go.hackfix.me/curator/db"
)

// TimeNow is the fixed time returned by test databases.
var TimeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// TimeNowFn returns TimeNow.
func TimeNowFn() time.Time {
	return TimeNow
}

// Open returns a new, empty in-memory database that is closed when the test
// finishes.
func Open(t *testing.T) *db.DB {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	// A unique name per test, to avoid clashing of in-memory SQLite DBs.
	rndName := make([]byte, 12)
	_, err := rand.Read(rndName)
	require.NoError(t, err)

	// Not using just :memory: to avoid 'no such table' issue.
	// See https://github.com/mattn/go-sqlite3#faq
	d, err := db.Open(ctx,
		fmt.Sprintf("file:curator-%x?mode=memory&cache=shared", rndName), TimeNowFn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return d
}

// Init returns a new in-memory database with the full schema, seeded records
// and all migrations applied.
func Init(t *testing.T) *db.DB {
	t.Helper()

	d := Open(t)
	report, err := d.Init(context.Background(), db.Admin{Username: "admin", Password: "s3cret"}, Logger())
	require.NoError(t, err)
	require.NoError(t, report.Err())

	return d
}

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
