package api

import (
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"time"

	"go.hackfix.me/curator/db/models"
	dbtypes "go.hackfix.me/curator/db/types"
	"go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/web/server/upload"
)

// SitesList returns the listed sites in display order, optionally filtered by
// category or tag.
func (h *Handler) SitesList(ctx context.Context, req *types.SitesRequest) (*types.SitesResponse, error) {
	var filter *dbtypes.Filter
	if cat := req.Category(); cat != "" {
		filter = dbtypes.NewFilter(
			"s.id IN (SELECT siteId FROM site_categories WHERE categoryId = ?)", []any{cat})
	}
	if tag := req.Tag(); tag != "" {
		tagFilter := dbtypes.NewFilter(
			"s.id IN (SELECT siteId FROM site_tags WHERE tagId = ?)", []any{tag})
		if filter == nil {
			filter = tagFilter
		} else {
			filter = filter.And(tagFilter)
		}
	}

	sites, err := models.Sites(ctx, h.appCtx.DB, filter)
	if err != nil {
		return nil, err
	}

	now := h.timeNow()
	data := make([]types.Site, 0, len(sites))
	for _, s := range sites {
		data = append(data, types.NewSite(s, now))
	}

	return types.NewSitesResponse(data), nil
}

// SiteGet returns a single site.
func (h *Handler) SiteGet(ctx context.Context, req *types.IDRequest) (*types.SiteResponse, error) {
	site := &models.Site{ID: req.ID()}
	if err := site.Load(ctx, h.appCtx.DB); err != nil {
		return nil, apiError(err)
	}

	return types.NewSiteResponse(http.StatusOK, types.NewSite(site, h.timeNow())), nil
}

// SiteCreate adds a new site to the directory. New sites are flagged as new
// for the configured window, unless requested otherwise.
func (h *Handler) SiteCreate(ctx context.Context, req *types.SiteFormRequest) (*types.SiteResponse, error) {
	now := h.timeNow()
	site := &models.Site{}
	setSiteFields(site, req)
	h.setSiteFlags(site, req, now, true)

	saved, err := h.saveUploads(
		pendingUpload{&site.Screenshot, upload.KindScreenshot, "screenshot", req.Screenshot},
		pendingUpload{&site.Icon, upload.KindIcon, "icon", req.Icon},
	)
	if err != nil {
		return nil, apiError(err)
	}

	if err = site.Save(ctx, h.appCtx.DB, false); err != nil {
		h.removeUploads(saved...)
		return nil, apiError(err)
	}

	// Reload to get the names of the assigned terms.
	if err = site.Load(ctx, h.appCtx.DB); err != nil {
		return nil, err
	}

	return types.NewSiteResponse(http.StatusCreated, types.NewSite(site, now)), nil
}

// SiteUpdate replaces the fields of an existing site. Images are only
// replaced when new ones are uploaded.
func (h *Handler) SiteUpdate(ctx context.Context, req *types.SiteFormRequest) (*types.SiteResponse, error) {
	site := &models.Site{ID: req.ID()}
	if err := site.Load(ctx, h.appCtx.DB); err != nil {
		return nil, apiError(err)
	}

	now := h.timeNow()
	oldScreenshot, oldIcon := site.Screenshot, site.Icon
	setSiteFields(site, req)
	h.setSiteFlags(site, req, now, false)

	saved, err := h.saveUploads(
		pendingUpload{&site.Screenshot, upload.KindScreenshot, "screenshot", req.Screenshot},
		pendingUpload{&site.Icon, upload.KindIcon, "icon", req.Icon},
	)
	if err != nil {
		return nil, apiError(err)
	}

	if err = site.Save(ctx, h.appCtx.DB, true); err != nil {
		h.removeUploads(saved...)
		return nil, apiError(err)
	}

	if site.Screenshot != oldScreenshot {
		h.removeUploads(oldScreenshot)
	}
	if site.Icon != oldIcon {
		h.removeUploads(oldIcon)
	}

	if err = site.Load(ctx, h.appCtx.DB); err != nil {
		return nil, err
	}

	return types.NewSiteResponse(http.StatusOK, types.NewSite(site, now)), nil
}

// SiteDelete removes a site and its images.
func (h *Handler) SiteDelete(ctx context.Context, req *types.IDRequest) (*types.EmptyResponse, error) {
	site := &models.Site{ID: req.ID()}
	if err := site.Load(ctx, h.appCtx.DB); err != nil {
		return nil, apiError(err)
	}
	if err := site.Delete(ctx, h.appCtx.DB); err != nil {
		return nil, apiError(err)
	}
	h.removeUploads(site.Screenshot, site.Icon)

	return types.NewEmptyResponse(http.StatusOK), nil
}

// SitesReorder sets the display order of sites to the order of the given IDs.
func (h *Handler) SitesReorder(ctx context.Context, req *types.ReorderRequest) (*types.EmptyResponse, error) {
	if err := models.ReorderSites(ctx, h.appCtx.DB, req.IDs); err != nil {
		return nil, apiError(err)
	}

	return types.NewEmptyResponse(http.StatusOK), nil
}

func setSiteFields(site *models.Site, req *types.SiteFormRequest) {
	site.Name = req.Name
	site.URL = req.URL
	site.Description = req.Description
	site.TutorialURL = req.TutorialURL
	site.Categories = make([]*models.Category, 0, len(req.Categories))
	for _, id := range req.Categories {
		site.Categories = append(site.Categories, &models.Category{ID: id})
	}
	site.Tags = make([]*models.Tag, 0, len(req.Tags))
	for _, id := range req.Tags {
		site.Tags = append(site.Tags, &models.Tag{ID: id})
	}
}

// setSiteFlags updates the hot and new flags from the request. A flag that is
// turned on without an explicit expiry expires after the configured window.
// New sites are flagged as new unless the request turns the flag off.
func (h *Handler) setSiteFlags(site *models.Site, req *types.SiteFormRequest, now time.Time, create bool) {
	isNew := req.IsNew
	if create && !isNew.Valid {
		isNew = sql.Null[bool]{V: true, Valid: true}
	}

	site.IsHot, site.HotUntil = flag(site.IsHot, site.HotUntil, req.IsHot, req.HotUntil,
		site.Hot(now), now.Add(h.opts.HotWindow))
	site.IsNew, site.NewUntil = flag(site.IsNew, site.NewUntil, isNew, req.NewUntil,
		site.New(now), now.Add(h.opts.NewWindow))
}

func flag(
	cur bool, curUntil sql.Null[time.Time], set sql.Null[bool], until sql.Null[time.Time],
	active bool, defaultUntil time.Time,
) (bool, sql.Null[time.Time]) {
	switch {
	case set.Valid && !set.V:
		return false, sql.Null[time.Time]{}
	case until.Valid:
		return set.V || cur, until
	case set.Valid && !active:
		return true, sql.Null[time.Time]{V: defaultUntil, Valid: true}
	}

	return cur, curUntil
}

// pendingUpload is an uploaded file to store, and the field that will hold
// its URL path.
type pendingUpload struct {
	target *string
	kind   upload.Kind
	field  string
	fh     *multipart.FileHeader
}

// saveUploads stores the uploaded files, and sets the URL path of each stored
// file in its target. It returns the URL paths of the stored files. If any
// file fails, the files stored so far are removed.
func (h *Handler) saveUploads(uploads ...pendingUpload) ([]string, error) {
	var saved []string
	for _, u := range uploads {
		if u.fh == nil {
			continue
		}
		urlPath, err := h.opts.Uploads.Save(u.kind, u.field, u.fh)
		if err != nil {
			h.removeUploads(saved...)
			return nil, err //nolint:wrapcheck // Upload errors are descriptive enough.
		}
		*u.target = urlPath
		saved = append(saved, urlPath)
	}

	return saved, nil
}

func (h *Handler) removeUploads(urlPaths ...string) {
	for _, p := range urlPaths {
		if p == "" {
			continue
		}
		if err := h.opts.Uploads.Remove(p); err != nil {
			h.logger.Warn("failed removing uploaded file", "path", p, "error", err.Error())
		}
	}
}
