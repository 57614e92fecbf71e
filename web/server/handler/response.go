package handler

import (
	"context"
	"errors"
	"net/http"

	"go.hackfix.me/curator/web/server/types"
)

// CacheControl sets the Cache-Control header of successful responses.
func CacheControl(value string) ResponseProcessor {
	return func(ctx context.Context, resp types.Response) (context.Context, error) {
		if resp.GetError() == nil {
			resp.GetHeader().Set("Cache-Control", value)
		}
		return ctx, nil
	}
}

func writeResponse(ctx context.Context, w http.ResponseWriter, resp types.Response) error {
	data := getResponseData(ctx)

	// Respond with at least some kind of useful response, even if it's invalid.
	var terr *types.Error
	if len(data) == 0 && errors.As(resp.GetError(), &terr) {
		data = []byte(terr.Message)
	}

	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	statusCode := resp.GetStatusCode()
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)
	_, err := w.Write(data)

	return err //nolint:wrapcheck // Wrapped by caller.
}
