package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/curator/db"
	"go.hackfix.me/curator/db/dbtest"
	"go.hackfix.me/curator/db/migrations"
	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/db/types"
)

func TestInit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := dbtest.Open(t)
	admin := db.Admin{Username: "admin", Password: "s3cret"}

	report, err := d.Init(ctx, admin, dbtest.Logger())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Executed)

	users, err := models.Users(ctx, d, nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin", users[0].Username)
	assert.True(t, users[0].CheckPassword("s3cret"))

	settings := &models.Settings{}
	require.NoError(t, settings.Load(ctx, d))
	assert.Equal(t, db.DefaultSettings.SiteName, settings.SiteName)
	assert.Equal(t, migrations.DefaultHeroTitle, settings.HeroTitle)

	// Initializing again doesn't create duplicate records.
	report, err = d.Init(ctx, db.Admin{Username: "other", Password: "x"}, dbtest.Logger())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Skipped)

	users, err = models.Users(ctx, d, nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	var count int
	err = d.QueryRowContext(ctx, `SELECT COUNT(*) FROM site_settings`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestColumns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := dbtest.Init(t)

	cols, err := d.Columns(ctx, "sites")
	require.NoError(t, err)
	require.NotEmpty(t, cols)

	assert.Equal(t, types.Column{Name: "id", Type: "TEXT", PrimaryKey: true}, cols[0])

	var order types.Column
	for _, c := range cols {
		if c.Name == "displayOrder" {
			order = c
		}
	}
	assert.Equal(t, "INTEGER", order.Type)
	assert.True(t, order.Default.Valid)
	assert.Equal(t, "0", order.Default.V)

	cols, err = d.Columns(ctx, "no_such_table")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestTx(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("ok/commit", func(t *testing.T) {
		t.Parallel()

		d := dbtest.Init(t)
		err := d.Tx(ctx, func(s types.Schema) error {
			cat := &models.Category{Name: "AI"}
			return cat.Save(ctx, s, false)
		})
		require.NoError(t, err)

		cats, err := models.Categories(ctx, d, nil)
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	})

	t.Run("err/rollback", func(t *testing.T) {
		t.Parallel()

		d := dbtest.Init(t)
		errBoom := errors.New("boom")
		err := d.Tx(ctx, func(s types.Schema) error {
			cat := &models.Category{Name: "AI"}
			if err := cat.Save(ctx, s, false); err != nil {
				return err
			}
			// Nested transactions join the outer one.
			return s.Tx(ctx, func(types.Schema) error { return errBoom })
		})
		require.ErrorIs(t, err, errBoom)

		cats, err := models.Categories(ctx, d, nil)
		require.NoError(t, err)
		assert.Empty(t, cats)
	})
}
