package handler

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"go.hackfix.me/curator/web/server/types"
)

// Handle returns an HTTP handler that decodes a Req, passes it to handlerFn
// and writes the Resp it returns, running the stages of p around it.
//
// The request stages run in this order: authentication, decoding, request
// processors and validation. The first error skips the remaining request
// stages and handlerFn, and becomes the response. The response is always
// encoded and passed through the response processors.
//
// Req and Resp must be pointers to struct types, since new values are created
// for every request.
func Handle[Req types.Request, Resp types.Response](
	handlerFn func(context.Context, Req) (Resp, error),
	p *Pipeline,
) http.HandlerFunc {
	logger := cmp.Or(p.logger, slog.Default())

	return func(w http.ResponseWriter, r *http.Request) {
		req, resp := createInstance[Req](), createInstance[Resp]()
		req.SetHTTPRequest(r)
		reqLogger := logger.With("path", r.URL.Path)
		fail := func(err error) bool {
			return handleError(resp, err, p.errorLevel, reqLogger)
		}

		ctx, ok := p.runRequest(r.Context(), req, fail)
		if ok {
			out, err := handlerFn(ctx, req)
			if err == nil && !isNilResponse(out) {
				resp = out
			}
			fail(err)
		}

		resp.SetHeader(w.Header())
		ctx = p.runResponse(ctx, resp, fail)
		if err := writeResponse(ctx, w, resp); err != nil {
			logger.Error("failed writing response", "error", err.Error())
		}
	}
}

// runRequest runs the request stages, and reports whether all of them
// succeeded.
func (p *Pipeline) runRequest(
	ctx context.Context, req types.Request, fail func(error) bool,
) (context.Context, bool) {
	var err error
	if p.auth != nil {
		if ctx, err = p.auth(ctx, req); fail(err) {
			return ctx, false
		}
	}

	if p.serializer != nil {
		if ctx, err = p.serializer.Deserialize(ctx, req); fail(err) {
			return ctx, false
		}
	}

	for _, process := range p.requestProcessors {
		if ctx, err = process(ctx, req); fail(err) {
			return ctx, false
		}
	}

	if v, ok := req.(interface{ Validate() error }); ok {
		if fail(v.Validate()) {
			return ctx, false
		}
	}

	return ctx, true
}

// runResponse encodes resp and runs the response processors. A failing
// processor replaces the response body with its error.
func (p *Pipeline) runResponse(
	ctx context.Context, resp types.Response, fail func(error) bool,
) context.Context {
	var err error
	if p.serializer != nil {
		if ctx, err = p.serializer.Serialize(ctx, resp); fail(err) {
			return ctx
		}
	}

	for _, process := range p.responseProcessors {
		if ctx, err = process(ctx, resp); fail(err) {
			break
		}
	}

	return ctx
}

// createInstance returns a new instance of type T.
//
//nolint:ireturn,nolintlint // Required for generic functionality.
func createInstance[T any]() T {
	var zero T
	tType := reflect.TypeOf(zero)

	if tType == nil {
		panic("cannot create instance of nil interface type")
	}

	switch tType.Kind() {
	case reflect.Ptr:
		return reflect.New(tType.Elem()).Interface().(T) //nolint:errcheck,forcetypeassert // It's fine.
	case reflect.Interface:
		panic("cannot create instance of interface type - need concrete type")
	default:
		return zero
	}
}

func isNilResponse(resp types.Response) bool {
	return resp == nil || reflect.ValueOf(resp).IsNil()
}

// handleError sets err on resp, and reports whether there was an error.
// Server errors are logged with their full message, since clients may only
// see a sanitized version.
func handleError(resp types.Response, err error, errLvl types.ErrorLevel, logger *slog.Logger) bool {
	if err == nil {
		return false
	}

	var terr *types.Error
	switch {
	case !errors.As(err, &terr) || terr == nil:
		terr = types.NewError(http.StatusInternalServerError, err.Error())
	case terr.StatusCode == 0:
		terr = types.NewError(http.StatusInternalServerError, terr.Message)
	}

	if terr.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed", "status", terr.StatusCode, "error", err.Error())
	}

	terr = sanitizeError(terr, errLvl)
	resp.SetStatusCode(terr.StatusCode)
	resp.SetError(terr)

	return true
}
