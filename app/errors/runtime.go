package errors

import (
	"errors"
	"fmt"
	"os"
)

// RuntimeError is an error that occurred while executing a command. It can
// carry a hint for the user on how to resolve it.
type RuntimeError struct {
	msg  string
	err  error
	hint string
}

// NewRuntimeError returns a new RuntimeError. err and hint are optional.
func NewRuntimeError(msg string, err error, hint string) *RuntimeError {
	return &RuntimeError{msg: msg, err: err, hint: hint}
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.msg, e.err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RuntimeError) Unwrap() error {
	return e.err
}

// Hint returns the suggestion for resolving the error, if any.
func (e *RuntimeError) Hint() string {
	return e.hint
}

// Errorf writes err to stderr, followed by a hint if err contains one.
func Errorf(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)

	var rerr *RuntimeError
	if errors.As(err, &rerr) && rerr.hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", rerr.hint)
	}
}
