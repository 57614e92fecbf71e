package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/db/types"
)

//go:embed sql/schema.sql
var schemaSQL string

// Admin are the credentials of the administrator account created when the
// database is initialized.
type Admin struct {
	Username string
	Password string
}

// DefaultSettings are the site settings a new database is seeded with.
var DefaultSettings = models.Settings{
	SiteName:        "Curator",
	SiteDescription: "A curated directory of useful tools",
	FooterText:      "© Curator. All rights reserved.",
}

// CreateSchema creates the base tables, unless they already exist.
func (d *DB) CreateSchema(ctx context.Context) error {
	if _, err := d.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed creating database schema: %w", err)
	}

	return nil
}

// seed creates the administrator and the settings records, unless they
// already exist.
func seed(ctx context.Context, d types.Schema, admin Admin, logger *slog.Logger) error {
	return d.Tx(ctx, func(tx types.Schema) error {
		users, err := models.Users(ctx, tx, &types.Filter{Limit: 1})
		if err != nil {
			return err
		}
		if len(users) == 0 {
			if err = createAdmin(ctx, tx, admin); err != nil {
				return err
			}
			logger.Info("created administrator account", "username", admin.Username)
		}

		err = (&models.Settings{}).Load(ctx, tx)
		var nrErr types.NoResultError
		if err == nil {
			return nil
		} else if !errors.As(err, &nrErr) {
			return err
		}

		settings := DefaultSettings
		if err = settings.Save(ctx, tx, false); err != nil {
			return fmt.Errorf("failed creating default settings: %w", err)
		}
		logger.Info("created default site settings")

		return nil
	})
}

func createAdmin(ctx context.Context, d types.Querier, admin Admin) error {
	user := &models.User{Username: admin.Username}
	if err := user.SetPassword(admin.Password); err != nil {
		return err
	}
	if err := user.Save(ctx, d, false); err != nil {
		return fmt.Errorf("failed creating administrator account: %w", err)
	}

	return nil
}
