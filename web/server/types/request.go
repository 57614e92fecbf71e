package types

import (
	"mime/multipart"
	"net/http"

	"go.hackfix.me/curator/db/models"
)

// Request defines the interface for HTTP request wrappers.
type Request interface {
	SetHTTPRequest(*http.Request)
	GetHTTPRequest() *http.Request
	GetUser() *models.User
	SetUser(*models.User)
}

// FormRequest is implemented by requests that are submitted as multipart
// forms.
type FormRequest interface {
	Request
	DecodeForm(*multipart.Form) error
}

// BaseRequest provides a base implementation for HTTP requests with user context.
type BaseRequest struct {
	*http.Request `json:"-"`
	User          *models.User `json:"-"`
}

var _ Request = (*BaseRequest)(nil)

// GetHTTPRequest returns the underlying HTTP request.
func (r *BaseRequest) GetHTTPRequest() *http.Request {
	return r.Request
}

// SetHTTPRequest sets the underlying HTTP request.
func (r *BaseRequest) SetHTTPRequest(req *http.Request) {
	r.Request = req
}

// GetUser returns the authenticated user for this request.
func (r *BaseRequest) GetUser() *models.User {
	return r.User
}

// SetUser sets the authenticated user for this request.
func (r *BaseRequest) SetUser(u *models.User) {
	r.User = u
}

// IDRequest is a request that targets a single record identified in the URL
// path.
type IDRequest struct {
	BaseRequest `json:"-"`
}

// ID returns the record ID from the request path.
func (r *IDRequest) ID() string {
	return r.PathValue("id")
}

// Validate checks that the record ID is set.
func (r *IDRequest) Validate() error {
	if r.ID() == "" {
		return NewError(http.StatusBadRequest, "ID must not be empty")
	}
	return nil
}
