package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"go4.org/netipx"

	actx "go.hackfix.me/curator/app/context"
	"go.hackfix.me/curator/web/server/api/v1"
	"go.hackfix.me/curator/web/server/auth"
	"go.hackfix.me/curator/web/server/middleware"
	"go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/web/server/upload"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
}

// New returns a new web Server instance that will listen on addr. The token
// secret, admin networks and the listing options are read from the
// application configuration.
func New(appCtx *actx.Context, addr string, errLevel types.ErrorLevel) (*Server, error) {
	cfg := appCtx.Config
	cfg.SetDefaults()

	issuer, err := auth.NewIssuer(cfg.Auth.TokenSecret.V, cfg.Server.TokenExpiration.V, appCtx.TimeNow)
	if err != nil {
		return nil, fmt.Errorf("failed creating token issuer: %w", err)
	}

	var adminNets *netipx.IPSet
	if len(cfg.Server.AdminNetworks) > 0 {
		if adminNets, err = middleware.NewIPSet(cfg.Server.AdminNetworks...); err != nil {
			return nil, err
		}
	}

	logger := appCtx.Logger.With("component", "web-server")
	opts := api.Options{
		Issuer:        issuer,
		Uploads:       upload.NewStore(appCtx.FS, filepath.Join(appCtx.DataDir, "uploads"), cfg.Server.MaxUploadSize.V),
		AdminNetworks: adminNets,
		ErrorLevel:    errLevel,
		HotWindow:     cfg.Listing.HotWindow.V,
		NewWindow:     cfg.Listing.NewWindow.V,
	}

	srv := &Server{
		Server: &http.Server{
			Handler:           SetupHandlers(appCtx, opts, logger),
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       time.Minute,
			WriteTimeout:      time.Minute,
		},
		logger: logger,
	}

	return srv, nil
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the
// system (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// SetupHandlers configures the server HTTP handlers.
func SetupHandlers(appCtx *actx.Context, opts api.Options, logger *slog.Logger) http.Handler {
	return middleware.Wrap(api.SetupHandlers(appCtx, opts, logger), middleware.Logger(logger))
}
