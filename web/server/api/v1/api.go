package api

import (
	"log/slog"
	"net/http"
	"time"

	"go4.org/netipx"

	actx "go.hackfix.me/curator/app/context"
	"go.hackfix.me/curator/web/server/auth"
	"go.hackfix.me/curator/web/server/handler"
	"go.hackfix.me/curator/web/server/middleware"
	"go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/web/server/upload"
)

// Options are the dependencies and settings of the API handlers.
type Options struct {
	Issuer  *auth.Issuer
	Uploads *upload.Store
	// AdminNetworks limits the networks mutating requests are accepted from.
	// A nil set allows all networks.
	AdminNetworks *netipx.IPSet
	ErrorLevel    types.ErrorLevel
	// HotWindow is how long a site stays hot when it's flagged without an
	// explicit expiry.
	HotWindow time.Duration
	// NewWindow is how long a new site stays flagged as new.
	NewWindow time.Duration
}

// Handler is the API endpoint handler.
type Handler struct {
	appCtx *actx.Context
	opts   Options
	policy auth.Policy
	logger *slog.Logger
}

// SetupHandlers configures the web API handlers, and the handler that serves
// uploaded files.
func SetupHandlers(appCtx *actx.Context, opts Options, logger *slog.Logger) http.Handler {
	h := &Handler{appCtx: appCtx, opts: opts, policy: auth.DefaultPolicy(), logger: logger}
	mux := http.NewServeMux()
	allowAdmin := middleware.AllowNetworks(opts.AdminNetworks, logger)
	adminOnly := func(hf http.HandlerFunc) http.Handler {
		return middleware.Wrap(hf, allowAdmin)
	}

	mux.Handle("POST /api/auth/login", adminOnly(handler.Handle(h.Login, h.pipeline())))
	mux.Handle("GET /api/auth/check", adminOnly(handler.Handle(h.Check, h.admin(auth.ActionRead, auth.TargetUsers))))

	mux.Handle("GET /api/sites", handler.Handle(h.SitesList, h.public(auth.ActionRead, auth.TargetSites)))
	mux.Handle("GET /api/sites/{id}", handler.Handle(h.SiteGet, h.public(auth.ActionRead, auth.TargetSites)))
	mux.Handle("POST /api/sites", adminOnly(handler.Handle(h.SiteCreate, h.adminForm(auth.ActionWrite, auth.TargetSites))))
	mux.Handle("PUT /api/sites/{id}", adminOnly(handler.Handle(h.SiteUpdate, h.adminForm(auth.ActionWrite, auth.TargetSites))))
	mux.Handle("DELETE /api/sites/{id}", adminOnly(handler.Handle(h.SiteDelete, h.admin(auth.ActionDelete, auth.TargetSites))))
	mux.Handle("POST /api/sites/reorder", adminOnly(handler.Handle(h.SitesReorder, h.admin(auth.ActionWrite, auth.TargetSites))))

	for _, ts := range []termStore{categoryStore(), tagStore()} {
		prefix := "/api/" + ts.target
		mux.Handle("GET "+prefix, handler.Handle(h.TermsList(ts), h.public(auth.ActionRead, ts.target)))
		mux.Handle("GET "+prefix+"/{id}", adminOnly(handler.Handle(h.TermGet(ts), h.admin(auth.ActionRead, ts.target))))
		mux.Handle("POST "+prefix, adminOnly(handler.Handle(h.TermCreate(ts), h.admin(auth.ActionWrite, ts.target))))
		mux.Handle("PUT "+prefix+"/{id}", adminOnly(handler.Handle(h.TermUpdate(ts), h.admin(auth.ActionWrite, ts.target))))
		mux.Handle("DELETE "+prefix+"/{id}", adminOnly(handler.Handle(h.TermDelete(ts), h.admin(auth.ActionDelete, ts.target))))
	}

	mux.Handle("GET /api/settings", handler.Handle(h.SettingsGet, h.public(auth.ActionRead, auth.TargetSettings)))
	mux.Handle("PUT /api/settings/{id}", adminOnly(handler.Handle(h.SettingsUpdate, h.adminForm(auth.ActionWrite, auth.TargetSettings))))

	mux.HandleFunc("GET "+upload.URLPrefix+"/{kind}/{name}", h.ServeUpload)

	return mux
}

func (h *Handler) pipeline() *handler.Pipeline {
	return handler.NewPipeline().
		Serializer(handler.JSON()).
		ErrorLevel(h.opts.ErrorLevel).
		Logger(h.logger)
}

// public returns a pipeline for endpoints that don't require authentication.
func (h *Handler) public(action, target string) *handler.Pipeline {
	return h.pipeline().ProcessRequest(handler.Authorize(h.policy, action, target))
}

// admin returns a pipeline for endpoints that require an API token.
func (h *Handler) admin(action, target string) *handler.Pipeline {
	return h.public(action, target).
		Auth(handler.BearerAuth(h.appCtx.DB, h.opts.Issuer, h.logger)).
		ProcessResponse(handler.CacheControl("no-store"))
}

// adminForm is like admin, but for endpoints that receive multipart forms.
func (h *Handler) adminForm(action, target string) *handler.Pipeline {
	return h.admin(action, target).
		Serializer(handler.Form(h.opts.Uploads.MaxSize() * 3))
}

func (h *Handler) timeNow() time.Time {
	return h.appCtx.DB.TimeNow().UTC()
}
