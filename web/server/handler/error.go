package handler

import (
	"net/http"

	"go.hackfix.me/curator/web/server/types"
)

// sanitizeError returns a copy of err with the message reduced to what the
// error level allows clients to see.
func sanitizeError(err *types.Error, lvl types.ErrorLevel) *types.Error {
	if err == nil {
		return nil
	}

	switch lvl {
	case types.ErrorLevelFull:
		return types.NewError(err.StatusCode, err.Message)
	case types.ErrorLevelMinimal:
		if err.StatusCode < http.StatusInternalServerError {
			return types.NewError(err.StatusCode, err.Message)
		}
	}

	return types.StatusError(err.StatusCode)
}
