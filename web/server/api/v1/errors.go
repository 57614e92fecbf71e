package api

import (
	"errors"
	"net/http"

	dbtypes "go.hackfix.me/curator/db/types"
	"go.hackfix.me/curator/web/server/types"
	"go.hackfix.me/curator/web/server/upload"
)

// apiError converts model and upload errors into HTTP errors. Other errors
// are returned unchanged, and result in a server error.
func apiError(err error) error {
	if err == nil {
		return nil
	}

	var (
		errNoRes dbtypes.NoResultError
		errDup   *dbtypes.DuplicateError
		errInput dbtypes.InvalidInputError
		errInUse dbtypes.InUseError
		errRef   *dbtypes.ReferenceError
		errFile  *upload.InvalidFileError
	)
	switch {
	case errors.As(err, &errNoRes):
		return types.NewError(http.StatusNotFound, err.Error())
	case errors.As(err, &errDup), errors.As(err, &errInput), errors.As(err, &errInUse),
		errors.As(err, &errRef), errors.As(err, &errFile):
		return types.NewError(http.StatusBadRequest, err.Error())
	}

	return err
}
