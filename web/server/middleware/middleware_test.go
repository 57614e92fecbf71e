package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowNetworks(t *testing.T) {
	t.Parallel()

	ipSet, err := NewIPSet(
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.5/32"),
		netip.MustParsePrefix("fd00::/8"),
	)
	require.NoError(t, err)

	testCases := []struct {
		remoteAddr string
		expStatus  int
	}{
		{"10.1.2.3:5000", http.StatusOK},
		{"192.168.1.5:5000", http.StatusOK},
		{"[::ffff:10.0.0.1]:5000", http.StatusOK},
		{"[fd00::1]:5000", http.StatusOK},
		{"192.168.1.6:5000", http.StatusForbidden},
		{"[2001:db8::1]:5000", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Wrap(ok, AllowNetworks(ipSet, logger))

	for _, tc := range testCases {
		t.Run(tc.remoteAddr, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/api/sites", nil)
			req.RemoteAddr = tc.remoteAddr
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.expStatus, rec.Code)
			if tc.expStatus == http.StatusForbidden {
				assert.JSONEq(t, `{"error":{"message":"Forbidden"}}`, rec.Body.String())
			}
		})
	}

	t.Run("nil_set_allows_all", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPost, "/api/sites", nil)
		req.RemoteAddr = "203.0.113.1:1234"
		rec := httptest.NewRecorder()
		Wrap(ok, AllowNetworks(nil, logger)).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestWrap(t *testing.T) {
	t.Parallel()

	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("a"), nil, mw("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}
