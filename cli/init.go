package cli

import (
	"crypto/rand"
	"fmt"

	"github.com/mr-tron/base58"

	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
	"go.hackfix.me/curator/db"
	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/web/server/auth"
)

// The Init command creates the Curator database with its base schema, seeds
// the administrator account and the default site settings, applies all
// migrations, and generates the API token secret.
type Init struct {
	Username string `default:"admin" help:"Name of the administrator account."`
	Password string `help:"Password of the administrator account. A random one is generated if empty."`
}

// Run the init command.
func (c *Init) Run(appCtx *actx.Context) error {
	cfg := appCtx.Config
	if !cfg.Auth.TokenSecret.Valid {
		secret, err := auth.NewSecret()
		if err != nil {
			return fmt.Errorf("failed generating the token secret: %w", err)
		}
		cfg.Auth.TokenSecret.V, cfg.Auth.TokenSecret.Valid = secret, true
		if err = cfg.Save(); err != nil {
			return aerrors.NewRuntimeError("failed saving configuration", err, "")
		}
		appCtx.Logger.Info("generated API token secret", "config", cfg.Path())
	}

	password := c.Password
	generated := password == ""
	if generated {
		var err error
		if password, err = newPassword(); err != nil {
			return err
		}
	}

	dbCtx := appCtx.DB.NewContext()
	report, err := appCtx.DB.Init(dbCtx, db.Admin{Username: c.Username, Password: password}, appCtx.Logger)
	if err != nil {
		return aerrors.NewRuntimeError("failed initializing database", err, "")
	}
	if err = report.Err(); err != nil {
		return aerrors.NewRuntimeError("failed applying database migrations", err,
			"fix the cause and run 'curator migrate' to retry")
	}

	// The account is only created if the database had none.
	admin := &models.User{Username: c.Username}
	if err = admin.Load(dbCtx, appCtx.DB); err == nil && generated && admin.CheckPassword(password) {
		fmt.Fprintf(appCtx.Stdout, "Administrator account '%s' created with password: %s\n",
			c.Username, password)
	}

	return nil
}

func newPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed generating password: %w", err)
	}

	return base58.Encode(b), nil
}
