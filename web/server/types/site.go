package types

import (
	"database/sql"
	"mime/multipart"
	"net/http"
	"time"

	"go.hackfix.me/curator/db/models"
)

// Site is the API representation of a listed site. IsHot and IsNew are only
// true while the flags haven't expired.
type Site struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	URL          string     `json:"url"`
	Description  string     `json:"description,omitempty"`
	Icon         string     `json:"icon,omitempty"`
	Screenshot   string     `json:"screenshot,omitempty"`
	DisplayOrder int        `json:"display_order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	IsHot        bool       `json:"is_hot"`
	IsNew        bool       `json:"is_new"`
	HotUntil     *time.Time `json:"hot_until,omitempty"`
	NewUntil     *time.Time `json:"new_until,omitempty"`
	TutorialURL  string     `json:"tutorial_url,omitempty"`
	Categories   []Term     `json:"categories"`
	Tags         []Term     `json:"tags"`
}

// NewSite converts a site model into its API representation at time now.
func NewSite(s *models.Site, now time.Time) Site {
	site := Site{
		ID:           s.ID,
		Name:         s.Name,
		URL:          s.URL,
		Description:  s.Description,
		Icon:         s.Icon,
		Screenshot:   s.Screenshot,
		DisplayOrder: s.DisplayOrder,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		IsHot:        s.Hot(now),
		IsNew:        s.New(now),
		HotUntil:     nullTime(s.HotUntil),
		NewUntil:     nullTime(s.NewUntil),
		TutorialURL:  s.TutorialURL,
		Categories:   make([]Term, 0, len(s.Categories)),
		Tags:         make([]Term, 0, len(s.Tags)),
	}
	for _, c := range s.Categories {
		site.Categories = append(site.Categories, NewCategory(c))
	}
	for _, t := range s.Tags {
		site.Tags = append(site.Tags, NewTag(t))
	}

	return site
}

// SitesRequest is the request to list sites, optionally filtered by category
// or tag ID.
type SitesRequest struct {
	BaseRequest `json:"-"`
}

// Category returns the category ID filter.
func (r *SitesRequest) Category() string {
	return r.URL.Query().Get("category")
}

// Tag returns the tag ID filter.
func (r *SitesRequest) Tag() string {
	return r.URL.Query().Get("tag")
}

// SiteFormRequest is the multipart form request to create or update a site.
// The ID is only set for updates, and a screenshot is required when creating.
type SiteFormRequest struct {
	IDRequest
	Name        string
	URL         string
	Description string
	TutorialURL string
	Categories  []string
	Tags        []string
	IsHot       sql.Null[bool]
	IsNew       sql.Null[bool]
	HotUntil    sql.Null[time.Time]
	NewUntil    sql.Null[time.Time]
	Screenshot  *multipart.FileHeader
	Icon        *multipart.FileHeader
}

var _ FormRequest = (*SiteFormRequest)(nil)

// DecodeForm populates the request from the submitted form.
func (r *SiteFormRequest) DecodeForm(form *multipart.Form) (err error) {
	r.Name = formValue(form, "name")
	r.URL = formValue(form, "url")
	r.Description = formValue(form, "description")
	r.TutorialURL = formValue(form, "tutorial_url")
	r.Categories = formList(form, "categories")
	r.Tags = formList(form, "tags")
	if r.IsHot, err = formBool(form, "is_hot"); err != nil {
		return err
	}
	if r.IsNew, err = formBool(form, "is_new"); err != nil {
		return err
	}
	if r.HotUntil, err = formTime(form, "hot_until"); err != nil {
		return err
	}
	if r.NewUntil, err = formTime(form, "new_until"); err != nil {
		return err
	}
	r.Screenshot = formFile(form, "screenshot")
	r.Icon = formFile(form, "icon")

	return nil
}

// Validate checks that the request is valid and ready for processing. Field
// values are validated by the site model.
func (r *SiteFormRequest) Validate() error {
	if r.ID() == "" && r.Screenshot == nil {
		return NewError(http.StatusBadRequest, "a screenshot is required")
	}
	return nil
}

// ReorderRequest is the request to change the display order of sites.
type ReorderRequest struct {
	BaseRequest `json:"-"`
	IDs         []string `json:"ids"`
}

// Validate checks that the request is valid and ready for processing.
func (r *ReorderRequest) Validate() error {
	if len(r.IDs) == 0 {
		return NewError(http.StatusBadRequest, "ids must not be empty")
	}
	return nil
}

// SiteResponse is the response with a single site.
type SiteResponse struct {
	BaseResponse
	Data Site `json:"data"`
}

// NewSiteResponse creates a new SiteResponse.
func NewSiteResponse(statusCode int, s Site) *SiteResponse {
	return &SiteResponse{BaseResponse: NewBaseResponse(statusCode, nil), Data: s}
}

// SitesResponse is the response with a list of sites.
type SitesResponse struct {
	BaseResponse
	Data []Site `json:"data"`
}

// NewSitesResponse creates a new SitesResponse with HTTP 200 status.
func NewSitesResponse(sites []Site) *SitesResponse {
	return &SitesResponse{BaseResponse: NewBaseResponse(http.StatusOK, nil), Data: sites}
}
