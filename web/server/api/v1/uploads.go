package api

import (
	"errors"
	"net/http"
	"time"

	"go.hackfix.me/curator/web/server/upload"
)

// ServeUpload serves a stored upload file.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	kind, name := upload.Kind(r.PathValue("kind")), r.PathValue("name")
	f, err := h.opts.Uploads.Open(kind, name)
	if err != nil {
		if !errors.Is(err, upload.ErrNotFound) {
			h.logger.Error("failed opening upload", "kind", kind, "name", name, "error", err.Error())
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	var modTime time.Time
	if fi, err := f.Stat(); err == nil {
		modTime = fi.ModTime()
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, name, modTime, f)
}
