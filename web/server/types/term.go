package types

import (
	"net/http"
	"strings"

	"go.hackfix.me/curator/db/models"
)

// Term is the API representation of a category or tag.
type Term struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SiteCount   int    `json:"site_count"`
}

// NewCategory converts a category model into its API representation.
func NewCategory(c *models.Category) Term {
	return Term{ID: c.ID, Name: c.Name, Description: c.Description, SiteCount: c.SiteCount}
}

// NewTag converts a tag model into its API representation.
func NewTag(t *models.Tag) Term {
	return NewCategory((*models.Category)(t))
}

// TermRequest is the request to create or update a category or tag. The ID is
// only set for updates.
type TermRequest struct {
	IDRequest   `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate checks that the request is valid and ready for processing.
func (r *TermRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return NewError(http.StatusBadRequest, "name must not be empty")
	}
	return nil
}

// TermResponse is the response with a single category or tag.
type TermResponse struct {
	BaseResponse
	Data Term `json:"data"`
}

// NewTermResponse creates a new TermResponse.
func NewTermResponse(statusCode int, t Term) *TermResponse {
	return &TermResponse{BaseResponse: NewBaseResponse(statusCode, nil), Data: t}
}

// TermsResponse is the response with a list of categories or tags.
type TermsResponse struct {
	BaseResponse
	Data []Term `json:"data"`
}

// NewTermsResponse creates a new TermsResponse with HTTP 200 status.
func NewTermsResponse(terms []Term) *TermsResponse {
	return &TermsResponse{BaseResponse: NewBaseResponse(http.StatusOK, nil), Data: terms}
}
