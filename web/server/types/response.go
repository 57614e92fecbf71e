package types

import (
	"errors"
	"maps"
	"net/http"
)

// Response defines the interface for HTTP response wrappers.
type Response interface {
	GetStatusCode() int
	SetStatusCode(int)
	GetError() error
	SetError(error)
	GetHeader() http.Header
	SetHeader(http.Header)
}

// BaseResponse provides a base implementation for HTTP responses.
type BaseResponse struct {
	StatusCode int    `json:"-"`
	Error      *Error `json:"error,omitempty"`
	header     http.Header
}

var _ Response = (*BaseResponse)(nil)

// NewBaseResponse returns a BaseResponse with the given status code and
// optional headers.
func NewBaseResponse(statusCode int, header http.Header) BaseResponse {
	if header == nil {
		header = http.Header{}
	}
	return BaseResponse{StatusCode: statusCode, header: header}
}

// GetStatusCode returns the HTTP status code for the response.
func (r *BaseResponse) GetStatusCode() int {
	return r.StatusCode
}

// SetStatusCode sets the HTTP status code for the response.
func (r *BaseResponse) SetStatusCode(code int) {
	r.StatusCode = code
}

// GetError returns the response error, if any.
func (r *BaseResponse) GetError() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// SetError sets the response error. Errors that aren't of type *Error are
// converted to a server error.
func (r *BaseResponse) SetError(err error) {
	if err == nil {
		r.Error = nil
		return
	}
	var terr *Error
	if !errors.As(err, &terr) {
		terr = NewError(http.StatusInternalServerError, err.Error())
	}
	r.Error = terr
}

// GetHeader returns the response headers.
func (r *BaseResponse) GetHeader() http.Header {
	if r.header == nil {
		r.header = http.Header{}
	}
	return r.header
}

// SetHeader copies the headers set so far into h, and uses h for any
// subsequent changes.
func (r *BaseResponse) SetHeader(h http.Header) {
	maps.Copy(h, r.header)
	r.header = h
}

// EmptyResponse is a response without data.
type EmptyResponse struct {
	BaseResponse
}

// NewEmptyResponse returns an EmptyResponse with the given status code.
func NewEmptyResponse(statusCode int) *EmptyResponse {
	return &EmptyResponse{BaseResponse: NewBaseResponse(statusCode, nil)}
}
