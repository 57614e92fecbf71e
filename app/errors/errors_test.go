package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredError(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := WithCause(errors.New("failed saving site"), cause, "site_id", "abc")
	err = With(err, "table", "sites")

	assert.EqualError(t, err, "failed saving site")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, map[string]any{"site_id": "abc", "table": "sites"}, err.Metadata())
	assert.Equal(t, cause, err.Cause())

	assert.Equal(t, []any{"cause", cause, "site_id", "abc", "table", "sites"}, err.Attrs())

	// Merging keeps the cause.
	err = With(err, "site_id", "def")
	assert.Equal(t, cause, err.Cause())
	assert.Equal(t, "def", err.Metadata()["site_id"])

	assert.Panics(t, func() { _ = NewWith("odd", "key") })
	assert.Panics(t, func() { _ = NewWith("bad key", 1, "value") })
}

func TestLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	Log(logger, NewWithCause("failed reading table columns", errors.New("no such table"), "table", "nope"))
	assert.Equal(t,
		`level=ERROR msg="failed reading table columns" cause="no such table" table=nope`+"\n",
		buf.String())

	buf.Reset()
	Log(logger, errors.New("plain"))
	assert.Equal(t, "level=ERROR msg=plain\n", buf.String())
}

func TestRuntimeError(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such table: sites")
	err := NewRuntimeError("failed listing sites", cause, "run 'curator init' first")
	assert.EqualError(t, err, "failed listing sites: no such table: sites")
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "run 'curator init' first", err.Hint())

	assert.EqualError(t, NewRuntimeError("plain", nil, ""), "plain")
}
