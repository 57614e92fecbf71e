package xtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in     string
		exp    time.Duration
		expErr string
	}{
		{in: "30d", exp: 30 * 24 * time.Hour},
		{in: "1w2d", exp: 9 * 24 * time.Hour},
		{in: "24h", exp: 24 * time.Hour},
		{in: "1M", exp: 30 * 24 * time.Hour},
		{in: "1h30m", exp: 90 * time.Minute},
		{in: "-1d", exp: -24 * time.Hour},
		{in: "", expErr: "empty duration"},
		{in: "soon", expErr: "invalid duration 'soon'"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseDuration(tc.in)
			if tc.expErr != "" {
				assert.EqualError(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1M", FormatDuration(30*24*time.Hour, time.Hour))
	assert.Equal(t, "1w", FormatDuration(7*24*time.Hour, time.Hour))
	assert.Equal(t, "1d", FormatDuration(24*time.Hour, time.Minute))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute, time.Minute))
	assert.Equal(t, "0d", FormatDuration(0, time.Hour))
}

func TestDurationText(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("7d")))
	assert.Equal(t, Duration(7*24*time.Hour), d)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1w", string(text))

	assert.Error(t, d.UnmarshalText([]byte("nope")))
}
