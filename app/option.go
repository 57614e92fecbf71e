package app

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mandelsoft/vfs/pkg/vfs"

	"go.hackfix.me/curator/app/config"
	actx "go.hackfix.me/curator/app/context"
	"go.hackfix.me/curator/db"
)

const logTimeFormat = "2006-01-02 15:04:05.000"

// Option configures the App before the command line is parsed.
type Option func(*App)

// WithContext sets the context that commands run with. Canceling it stops a
// running server.
func WithContext(ctx context.Context) Option {
	return func(app *App) { app.ctx.Ctx = ctx }
}

// WithConfig uses cfg instead of loading the configuration file.
func WithConfig(cfg *config.Config) Option {
	return func(app *App) { app.ctx.Config = cfg }
}

// WithDB uses an already opened database instead of the one in the data
// directory. The App doesn't close it.
func WithDB(d *db.DB) Option {
	return func(app *App) { app.ctx.DB = d }
}

// WithEnv sets the source of environment variables.
func WithEnv(env actx.Environment) Option {
	return func(app *App) { app.ctx.Env = env }
}

// WithFS sets the filesystem that configuration and uploads are stored on.
func WithFS(fs vfs.FileSystem) Option {
	return func(app *App) { app.ctx.FS = fs }
}

// WithFDs sets the standard streams. Options that write output, like
// WithLogger, must come after it.
func WithFDs(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(app *App) {
		app.ctx.Stdin, app.ctx.Stdout, app.ctx.Stderr = stdin, stdout, stderr
	}
}

// WithLogger logs to stderr, in color if color is true. The level is set by
// the --log-level flag when the App runs.
func WithLogger(color bool) Option {
	return func(app *App) {
		app.logLevel = new(slog.LevelVar)
		app.ctx.Logger = slog.New(tint.NewHandler(app.ctx.Stderr, &tint.Options{
			Level:      app.logLevel,
			NoColor:    !color,
			TimeFormat: logTimeFormat,
		}))
		slog.SetDefault(app.ctx.Logger)
	}
}

// WithTimeNow sets the clock used for timestamps and token expiration.
func WithTimeNow(timeNow func() time.Time) Option {
	return func(app *App) { app.ctx.TimeNow = timeNow }
}
