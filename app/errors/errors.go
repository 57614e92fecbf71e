// Package errors contains the error types shown to users of the command line
// interface.
package errors

import (
	"errors"
	"log/slog"
)

// Log writes err to logger at the error level. The cause and metadata of a
// StructuredError are written as separate attributes.
func Log(logger *slog.Logger, err error) {
	var serr *StructuredError
	if !errors.As(err, &serr) {
		logger.Error(err.Error())
		return
	}

	logger.Error(serr.Error(), serr.Attrs()...)
}
