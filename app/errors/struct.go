package errors

import (
	"errors"
	"maps"
	"slices"
)

// StructuredError is an error with a cause and key/value metadata, which are
// rendered as separate fields when the error is logged.
type StructuredError struct {
	err      error
	metadata map[string]any
	cause    error
}

// Error implements the error interface. The cause isn't part of the message.
func (e *StructuredError) Error() string {
	return e.err.Error()
}

// Unwrap allows errors.Is and errors.As to match both the error and its cause.
func (e *StructuredError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.err != nil {
		errs = append(errs, e.err)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}

	return errs
}

// Cause returns the error that caused this one, if any.
func (e *StructuredError) Cause() error {
	return e.cause
}

// Metadata returns a copy of the metadata.
func (e *StructuredError) Metadata() map[string]any {
	if e.metadata == nil {
		return nil
	}

	return maps.Clone(e.metadata)
}

// Attrs returns the cause and the metadata as alternating keys and values,
// ordered by key, in the form accepted by slog.
func (e *StructuredError) Attrs() []any {
	attrs := make([]any, 0, len(e.metadata)*2+2)

	cause := e.metadata["cause"]
	if e.cause != nil {
		cause = e.cause
	}
	if cause != nil {
		attrs = append(attrs, "cause", cause)
	}

	for _, k := range slices.Sorted(maps.Keys(e.metadata)) {
		if k != "cause" {
			attrs = append(attrs, k, e.metadata[k])
		}
	}

	return attrs
}

// NewWith creates a StructuredError from a message with optional metadata.
func NewWith(msg string, fields ...any) *StructuredError {
	return With(errors.New(msg), fields...)
}

// NewWithCause creates a StructuredError from a message with a cause and
// optional metadata.
func NewWithCause(msg string, cause error, fields ...any) *StructuredError {
	return WithCause(errors.New(msg), cause, fields...)
}

// With adds metadata to err. Metadata of an existing StructuredError is merged,
// with the new fields taking precedence.
func With(err error, fields ...any) *StructuredError {
	var cause error
	if se, ok := err.(*StructuredError); ok {
		cause = se.cause
	}

	return merge(err, cause, fields)
}

// WithCause is like With, but also sets the cause of the error.
func WithCause(err, cause error, fields ...any) *StructuredError {
	return merge(err, cause, fields)
}

func merge(err, cause error, fields []any) *StructuredError {
	metadata := fieldsMap(fields)
	se, ok := err.(*StructuredError)
	if !ok {
		return &StructuredError{err: err, metadata: metadata, cause: cause}
	}

	combined := maps.Clone(se.metadata)
	if combined == nil {
		combined = make(map[string]any, len(metadata))
	}
	maps.Copy(combined, metadata)

	return &StructuredError{err: se.err, metadata: combined, cause: cause}
}

func fieldsMap(fields []any) map[string]any {
	if len(fields)%2 != 0 {
		panic("an even number of fields is required")
	}

	metadata := make(map[string]any, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			panic("keys must be strings")
		}
		metadata[key] = fields[i+1]
	}

	return metadata
}
