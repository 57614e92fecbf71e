package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"

	"go4.org/netipx"

	"go.hackfix.me/curator/web/server/types"
)

// NewIPSet builds an IP set from the given prefixes.
func NewIPSet(prefixes ...netip.Prefix) (*netipx.IPSet, error) {
	var b netipx.IPSetBuilder
	for _, p := range prefixes {
		b.AddRange(netipx.RangeOfPrefix(p))
	}

	ipSet, err := b.IPSet()
	if err != nil {
		return nil, fmt.Errorf("failed building IP set: %w", err)
	}

	return ipSet, nil
}

// AllowNetworks only allows requests whose remote address is in ipSet, and
// responds with 403 Forbidden otherwise. A nil ipSet allows all requests.
func AllowNetworks(ipSet *netipx.IPSet, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		if ipSet == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			addr, err := remoteAddr(r)
			if err != nil || !ipSet.Contains(addr) {
				logger.Warn("rejected request from disallowed network",
					"remote_addr", r.RemoteAddr, "method", r.Method, "path", r.URL.Path)
				writeError(w, types.StatusError(http.StatusForbidden))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// remoteAddr returns the IP address of the client. IPv4-mapped IPv6
// addresses are unmapped.
func remoteAddr(r *http.Request) (netip.Addr, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("failed parsing remote address '%s': %w", r.RemoteAddr, err)
	}

	return addr.Unmap(), nil
}

func writeError(w http.ResponseWriter, err *types.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]*types.Error{"error": err})
}
