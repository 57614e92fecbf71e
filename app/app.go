package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mandelsoft/vfs/pkg/memoryfs"

	"go.hackfix.me/curator/app/config"
	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
	"go.hackfix.me/curator/cli"
	"go.hackfix.me/curator/db"
)

const (
	// DBFileName is the name of the SQLite database file within the data directory.
	DBFileName = "curator.db"
	// TokenSecretEnvVar overrides the configured API token secret.
	TokenSecretEnvVar = "CURATOR_TOKEN_SECRET"
)

// App is the application.
type App struct {
	name string
	ctx  *actx.Context
	cli  *cli.CLI
	// the logging level is set via the CLI, if the app was initialized with the
	// WithLogger option.
	logLevel *slog.LevelVar
}

// New initializes a new application. configPath and dataDir are the default
// locations of the configuration file and the data directory, which can be
// overridden via the CLI.
func New(name, configPath, dataDir string, opts ...Option) (*App, error) {
	version, err := actx.GetVersion()
	if err != nil {
		return nil, err
	}

	defaultCtx := &actx.Context{
		Ctx:     context.Background(),
		FS:      memoryfs.New(),
		Logger:  slog.Default(),
		TimeNow: time.Now,
		Stdin:   os.Stdin,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
		Version: version,
	}
	app := &App{name: name, ctx: defaultCtx}

	for _, opt := range opts {
		opt(app)
	}

	ver := fmt.Sprintf("%s %s", app.name, app.ctx.Version.String())
	app.cli, err = cli.New(app.ctx, configPath, dataDir, ver)
	if err != nil {
		return nil, err
	}

	return app, nil
}

// Run initializes the application environment and starts execution of the
// application.
func (app *App) Run(args []string) error {
	if err := app.cli.Parse(args); err != nil {
		return err
	}

	if app.logLevel != nil {
		app.logLevel.Set(app.cli.Log.Level)
		slog.SetLogLoggerLevel(app.cli.Log.Level)
	}

	if app.ctx.Config == nil {
		cfg := config.NewConfig(app.ctx.FS, app.cli.ConfigFile)
		if err := cfg.Load(); err != nil {
			return aerrors.NewRuntimeError("failed loading configuration", err, "")
		}
		app.ctx.Config = cfg
	}
	if app.ctx.Env != nil {
		if secret := app.ctx.Env.Get(TokenSecretEnvVar); secret != "" {
			app.ctx.Config.Auth.TokenSecret = sql.Null[string]{V: secret, Valid: true}
		}
	}
	app.cli.ApplyConfig(app.ctx.Config)

	app.ctx.DataDir = app.cli.DataDir
	if app.ctx.DB == nil {
		d, err := app.openDB()
		if err != nil {
			return err
		}
		defer func() {
			if err := d.Close(); err != nil {
				app.ctx.Logger.Warn("failed closing database", "error", err)
			}
			app.ctx.DB = nil
		}()
		app.ctx.DB = d
	}

	app.ctx.Logger.Debug("running command",
		"command", app.cli.Command(), "config", app.ctx.Config.Path(), "data_dir", app.ctx.DataDir)

	if err := app.cli.Execute(app.ctx); err != nil {
		return err
	}

	return nil
}

func (app *App) openDB() (*db.DB, error) {
	if err := app.ctx.FS.MkdirAll(app.ctx.DataDir, 0o700); err != nil {
		return nil, aerrors.NewRuntimeError("failed creating data directory", err, "")
	}

	dbPath := filepath.Join(app.ctx.DataDir, DBFileName)
	d, err := db.Open(app.ctx.Ctx, dbPath, app.ctx.TimeNow)
	if err != nil {
		return nil, aerrors.NewRuntimeError(
			fmt.Sprintf("failed opening database '%s'", dbPath), err, "")
	}

	return d, nil
}
