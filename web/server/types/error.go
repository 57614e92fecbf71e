package types

import (
	"fmt"
	"net/http"
	"strings"
)

// Error represents an HTTP error with status code and message.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// Error returns the error message string.
func (e Error) Error() string {
	return e.Message
}

// NewError creates a new Error with the specified status code and message.
func NewError(statusCode int, message string) *Error {
	return &Error{
		StatusCode: statusCode,
		Message:    message,
	}
}

// ErrorLevel is the amount of error detail exposed to API clients.
type ErrorLevel int

// Error levels.
const (
	// ErrorLevelNone replaces every error message with the HTTP status text.
	ErrorLevelNone ErrorLevel = iota
	// ErrorLevelMinimal hides the details of server errors only.
	ErrorLevelMinimal
	// ErrorLevelFull exposes all error messages.
	ErrorLevelFull
)

var errorLevelNames = map[ErrorLevel]string{
	ErrorLevelNone:    "none",
	ErrorLevelMinimal: "minimal",
	ErrorLevelFull:    "full",
}

func (l ErrorLevel) String() string {
	if name, ok := errorLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("unknown (%d)", int(l))
}

// ParseErrorLevel returns the ErrorLevel with the given name.
func ParseErrorLevel(name string) (ErrorLevel, error) {
	for lvl, n := range errorLevelNames {
		if strings.EqualFold(n, name) {
			return lvl, nil
		}
	}

	return 0, fmt.Errorf("invalid error level '%s'", name)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *ErrorLevel) UnmarshalText(text []byte) error {
	lvl, err := ParseErrorLevel(string(text))
	if err != nil {
		return err
	}
	*l = lvl

	return nil
}

// StatusError returns an Error whose message is the standard text of the
// status code.
func StatusError(statusCode int) *Error {
	return NewError(statusCode, http.StatusText(statusCode))
}
