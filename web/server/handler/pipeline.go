// Package handler builds API endpoints from a Pipeline of stages shared by
// related routes, so that each endpoint function only deals with its own
// request and response types.
package handler

import (
	"context"
	"log/slog"

	"go.hackfix.me/curator/web/server/types"
)

// RequestProcessor runs after a request is decoded and before it's validated.
// Returning an error stops the request.
type RequestProcessor func(ctx context.Context, req types.Request) (context.Context, error)

// ResponseProcessor runs after a response is encoded and before it's written.
type ResponseProcessor func(ctx context.Context, resp types.Response) (context.Context, error)

// Pipeline defines the processing stages for HTTP requests and responses.
// It provides a fluent interface for configuring authentication and processors.
type Pipeline struct {
	auth               Authenticator
	serializer         Serializer
	errorLevel         types.ErrorLevel
	logger             *slog.Logger
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
}

// NewPipeline creates a new empty pipeline for configuring request/response
// processing.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Auth sets the authenticator for this pipeline.
func (p *Pipeline) Auth(auth Authenticator) *Pipeline {
	p.auth = auth
	return p
}

// Serializer sets the request and response serializer for this pipeline.
func (p *Pipeline) Serializer(s Serializer) *Pipeline {
	p.serializer = s
	return p
}

// ErrorLevel sets the amount of error detail exposed in responses.
func (p *Pipeline) ErrorLevel(lvl types.ErrorLevel) *Pipeline {
	p.errorLevel = lvl
	return p
}

// Logger sets the logger used for reporting server errors.
func (p *Pipeline) Logger(logger *slog.Logger) *Pipeline {
	p.logger = logger
	return p
}

// ProcessRequest adds one or more request processors to the pipeline.
func (p *Pipeline) ProcessRequest(processor ...RequestProcessor) *Pipeline {
	p.requestProcessors = append(p.requestProcessors, processor...)
	return p
}

// ProcessResponse adds one or more response processors to the pipeline.
func (p *Pipeline) ProcessResponse(processor ...ResponseProcessor) *Pipeline {
	p.responseProcessors = append(p.responseProcessors, processor...)
	return p
}
