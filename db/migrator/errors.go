package migrator

import (
	"fmt"
)

// SchemaIntrospectionError is returned when the structure of a table can't be
// read.
type SchemaIntrospectionError struct {
	Table string
	Err   error
}

func (e *SchemaIntrospectionError) Error() string {
	return fmt.Sprintf("failed reading columns of table '%s': %s", e.Table, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SchemaIntrospectionError) Unwrap() error {
	return e.Err
}

// DDLError is returned when a schema altering statement fails.
type DDLError struct {
	Table     string
	Column    string
	Statement string
	Err       error
}

func (e *DDLError) Error() string {
	return fmt.Sprintf("failed adding column '%s' to table '%s': %s", e.Column, e.Table, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DDLError) Unwrap() error {
	return e.Err
}

// BackfillError is returned when a data backfill statement fails.
type BackfillError struct {
	Description string
	Statement   string
	Err         error
}

func (e *BackfillError) Error() string {
	return fmt.Sprintf("failed backfill '%s': %s", e.Description, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *BackfillError) Unwrap() error {
	return e.Err
}

// DuplicateNameError is returned when recording a migration that the ledger
// already contains. This usually means that another runner applied the same
// unit concurrently.
type DuplicateNameError struct {
	Name string
	Err  error
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("migration '%s' is already recorded", e.Name)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DuplicateNameError) Unwrap() error {
	return e.Err
}

// LedgerUnavailableError is returned when the ledger table can't be created,
// read or written. It aborts a migration run.
type LedgerUnavailableError struct {
	Op  string
	Err error
}

func (e *LedgerUnavailableError) Error() string {
	return fmt.Sprintf("migration ledger unavailable: failed %s: %s", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *LedgerUnavailableError) Unwrap() error {
	return e.Err
}

// RegistrationError is returned when a unit can't be added to a Registry.
type RegistrationError struct {
	Name string
	Msg  string
}

func (e *RegistrationError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid migration: %s", e.Msg)
	}
	return fmt.Sprintf("invalid migration '%s': %s", e.Name, e.Msg)
}
