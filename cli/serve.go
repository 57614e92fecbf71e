package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.hackfix.me/curator/app/config"
	actx "go.hackfix.me/curator/app/context"
	aerrors "go.hackfix.me/curator/app/errors"
	"go.hackfix.me/curator/db/migrator"
	"go.hackfix.me/curator/web/server"
	stypes "go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/xtime"
)

const shutdownTimeout = 10 * time.Second

// Serve starts the web server.
type Serve struct {
	Address string `arg:"" optional:"" help:"[host]:port to listen on"`
	//nolint:lll // Long struct tags are unavoidable.
	TokenExpiration xtime.Duration `help:"How long admin API tokens are valid for (e.g. '12h', '7d'). Overrides the configured value."`
	//nolint:lll // Long struct tags are unavoidable.
	ErrorLevel stypes.ErrorLevel `default:"minimal" enum:"none,minimal,full" help:"Detail level of error messages returned to API clients, in order to avoid leaking sensitive information. This doesn't affect response status codes. Valid values: ${enum} \n none: hide all error messages; minimal: hide server error messages; full: keep error messages intact"`
}

// Run the serve command.
func (c *Serve) Run(appCtx *actx.Context) error {
	if !appCtx.Config.Auth.TokenSecret.Valid {
		return aerrors.NewRuntimeError("the API token secret isn't configured", nil,
			"run 'curator init' first")
	}

	if c.TokenExpiration > 0 {
		if time.Duration(c.TokenExpiration) < time.Minute {
			return errors.New("token expiration must be at least 1m")
		}
		appCtx.Config.Server.TokenExpiration = sql.Null[time.Duration]{
			V: time.Duration(c.TokenExpiration), Valid: true,
		}
	}

	// Failed units are reported, but don't prevent the server from starting.
	// They're retried on the next start.
	report, err := appCtx.DB.Migrate(appCtx.DB.NewContext(), appCtx.Logger)
	if err != nil {
		return aerrors.NewRuntimeError("failed migrating database", err, "")
	}
	if report.Failed > 0 {
		// Queries select the columns these units add, so the routes that read
		// them fail until the units are applied.
		for _, res := range report.Details {
			if res.Status == migrator.StatusFailed {
				appCtx.Logger.Warn("migration failed, requests using its columns will fail until it's applied",
					"unit", res.Name, "error", res.Err)
			}
		}
		appCtx.Logger.Warn("starting with failed migrations",
			"failed", report.Failed, "hint", "fix the cause and run 'curator migrate'")
	}

	addr := c.Address
	if addr == "" {
		addr = config.DefaultAddress
	}

	srv, err := server.New(appCtx, addr, c.ErrorLevel)
	if err != nil {
		return err
	}

	// Gracefully shutdown the server if a process signal is received, or the
	// main context is done.
	// See https://dev.to/mokiat/proper-http-shutdown-in-go-3fji
	srvDone := make(chan error, 1)
	go func() {
		srvErr := srv.ListenAndServe()
		slog.Debug("web server shutdown")
		srvDone <- srvErr
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case s := <-sigCh:
		slog.Debug("process received signal", "signal", s)
	case <-appCtx.Ctx.Done():
		slog.Debug("app context is done")
	case srvErr := <-srvDone:
		if srvErr != nil && !errors.Is(srvErr, http.ErrServerClosed) {
			return fmt.Errorf("web server error: %w", srvErr)
		}
		return nil
	}

	// The main context may already be done, so it can't bound the shutdown.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("failed shutting down web server: %w", err)
	}

	return nil
}
