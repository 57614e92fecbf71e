package types

import (
	"errors"
	"fmt"

	"github.com/glebarez/go-sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Errors returned by model operations. The API maps each of them to an HTTP
// status code, so their messages are safe to show to clients.

// DuplicateError is returned when a unique column already has the value being
// written.
type DuplicateError struct {
	ModelName string
	ID        string
}

func (e DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s already exists", e.ModelName, e.ID)
}

// NoResultError is returned when the requested record doesn't exist.
type NoResultError struct {
	ModelName string
	ID        string
}

func (e NoResultError) Error() string {
	return fmt.Sprintf("%s with %s doesn't exist", e.ModelName, e.ID)
}

// InUseError is returned when deleting a category or tag that sites are still
// assigned to.
type InUseError struct {
	ModelName string
	ID        string
	Count     int
}

func (e InUseError) Error() string {
	return fmt.Sprintf("%s with %s is used by %d site(s)", e.ModelName, e.ID, e.Count)
}

// InvalidInputError is returned when a value fails validation, either in Go
// or by a NOT NULL or CHECK constraint of the schema.
type InvalidInputError struct {
	Msg string
}

func (e InvalidInputError) Error() string {
	return e.Msg
}

// ReferenceError is returned when a foreign key points to a missing record.
type ReferenceError struct {
	Msg string
	Err error
}

func (e ReferenceError) Error() string { return e.Msg }
func (e ReferenceError) Unwrap() error { return e.Err }

// IntegrityError is returned when a write affects an unexpected number of
// rows.
type IntegrityError struct {
	Msg string
}

func (e IntegrityError) Error() string {
	return "integrity error: " + e.Msg
}

// LoadError wraps a failed query.
type LoadError struct {
	ModelName string
	Msg       string
	Err       error
}

func (e LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed loading %s: %s", e.ModelName, e.Err)
	}
	return fmt.Sprintf("failed loading %s: %s", e.ModelName, e.Msg)
}

func (e LoadError) Unwrap() error { return e.Err }

// ScanError wraps a failure to read a result row into Go values.
type ScanError struct {
	ModelName string
	Err       error
}

func (e ScanError) Error() string {
	return fmt.Sprintf("failed scanning %s data: %s", e.ModelName, e.Err)
}

func (e ScanError) Unwrap() error { return e.Err }

// Err translates constraint violations reported by SQLite for the record of
// modelName identified by id. Other errors are returned unchanged.
func Err(modelName, id string, err error) error {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return err
	}

	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return &DuplicateError{ModelName: modelName, ID: id}
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &ReferenceError{
			Msg: fmt.Sprintf("%s with %s references a missing record", modelName, id),
			Err: err,
		}
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL, sqlite3.SQLITE_CONSTRAINT_CHECK:
		return InvalidInputError{Msg: fmt.Sprintf("invalid %s with %s: %s", modelName, id, sqlErr.Error())}
	default:
		return err
	}
}
