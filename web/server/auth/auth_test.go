package auth

import (
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hackfix.me/curator/db/models"
)

var timeNow = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewIssuer(t *testing.T) {
	t.Parallel()

	secret, err := NewSecret()
	require.NoError(t, err)

	testCases := []struct {
		name   string
		secret string
		expErr string
	}{
		{name: "ok", secret: secret},
		{name: "err/empty", secret: "", expErr: "token secret is not set"},
		{name: "err/invalid_encoding", secret: "0OIl", expErr: "failed decoding token secret"},
		{
			name:   "err/too_short",
			secret: base58.Encode([]byte("short")),
			expErr: "token secret must be at least 32 bytes, got 5",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			iss, err := NewIssuer(tc.secret, time.Hour, func() time.Time { return timeNow })
			if tc.expErr != "" {
				assert.ErrorContains(t, err, tc.expErr)
				assert.Nil(t, iss)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, iss)
		})
	}
}

func TestIssuerVerify(t *testing.T) {
	t.Parallel()

	now := timeNow
	timeNowFn := func() time.Time { return now }
	secret, err := NewSecret()
	require.NoError(t, err)
	iss, err := NewIssuer(secret, time.Hour, timeNowFn)
	require.NoError(t, err)

	user := &models.User{ID: "u1", Username: "admin"}
	token, expiresAt, err := iss.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, timeNow.Add(time.Hour), expiresAt)

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		claims, err := iss.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.Subject)
		assert.Equal(t, "admin", claims.Username)
		assert.Equal(t, RoleAdmin, claims.Role)
	})

	t.Run("err/other_secret", func(t *testing.T) {
		t.Parallel()

		otherSecret, err := NewSecret()
		require.NoError(t, err)
		other, err := NewIssuer(otherSecret, time.Hour, timeNowFn)
		require.NoError(t, err)

		_, err = other.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("err/expired", func(t *testing.T) {
		t.Parallel()

		later, err := NewIssuer(secret, time.Hour, func() time.Time {
			return timeNow.Add(2 * time.Hour)
		})
		require.NoError(t, err)

		_, err = later.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
		assert.ErrorContains(t, err, "expired")
	})

	t.Run("err/malformed", func(t *testing.T) {
		t.Parallel()

		_, err := iss.Verify("not.a.token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("err/missing_subject", func(t *testing.T) {
		t.Parallel()

		noID, _, err := iss.Issue(&models.User{Username: "admin"})
		require.NoError(t, err)
		_, err = iss.Verify(noID)
		assert.EqualError(t, err, "invalid token: missing subject")
	})
}

func TestPolicy(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()

	testCases := []struct {
		role, action, target string
		expAllowed           bool
		expErr               string
	}{
		{RoleAnonymous, ActionRead, TargetSites, true, ""},
		{RoleAnonymous, ActionRead, TargetTags, true, ""},
		{RoleAnonymous, ActionWrite, TargetSites, false, ""},
		{RoleAnonymous, ActionDelete, TargetCategories, false, ""},
		{RoleAnonymous, ActionRead, TargetUsers, false, ""},
		{RoleAdmin, ActionDelete, TargetSites, true, ""},
		{RoleAdmin, ActionWrite, TargetSettings, true, ""},
		{"guest", ActionRead, TargetSites, false, "unknown role 'guest'"},
	}

	for _, tc := range testCases {
		t.Run(tc.role+"/"+tc.action+"/"+tc.target, func(t *testing.T) {
			t.Parallel()

			ok, err := policy.Can(tc.role, tc.action, tc.target)
			if tc.expErr != "" {
				assert.EqualError(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expAllowed, ok)
		})
	}
}
