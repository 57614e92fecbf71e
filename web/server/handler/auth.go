package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go.hackfix.me/curator/db/models"
	dbtypes "go.hackfix.me/curator/db/types"
	"go.hackfix.me/curator/web/server/auth"
	"go.hackfix.me/curator/web/server/types"
)

// Authenticator validates a request and returns an updated context or an error.
// If authentication is successful, a valid User will be set on the Request.
type Authenticator func(context.Context, types.Request) (context.Context, error)

// BearerAuth creates an authenticator that validates the API token sent in
// the Authorization header, and loads the user it was issued to.
func BearerAuth(d dbtypes.Querier, issuer *auth.Issuer, logger *slog.Logger) Authenticator {
	return func(ctx context.Context, req types.Request) (context.Context, error) {
		r := req.GetHTTPRequest()

		token, err := parseAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			return ctx, types.NewError(http.StatusUnauthorized, err.Error())
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			logger.Debug("rejected API token", "error", err.Error())
			return ctx, types.NewError(http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		}

		user := &models.User{ID: claims.Subject}
		if err = user.Load(ctx, d); err != nil {
			var errNoRes dbtypes.NoResultError
			if errors.As(err, &errNoRes) {
				return ctx, types.NewError(http.StatusUnauthorized, "user not found")
			}
			return ctx, err
		}

		req.SetUser(user)
		ctx = setRole(ctx, claims.Role)

		return ctx, nil
	}
}

// Authorize creates a request processor that checks that the client's role is
// allowed to perform action on target. Requests without an authenticated user
// have the anonymous role.
func Authorize(policy auth.Policy, action, target string) RequestProcessor {
	return func(ctx context.Context, req types.Request) (context.Context, error) {
		role := auth.RoleAnonymous
		if req.GetUser() != nil {
			role = getRole(ctx)
		}

		ok, err := policy.Can(role, action, target)
		if err != nil {
			return ctx, err
		}
		if !ok {
			if role == auth.RoleAnonymous {
				return ctx, types.StatusError(http.StatusUnauthorized)
			}
			return ctx, types.StatusError(http.StatusForbidden)
		}

		return ctx, nil
	}
}

// parseAuthHeader parses a Bearer token from an Authorization header.
func parseAuthHeader(header string) (string, error) {
	if header == "" {
		return "", errors.New("empty Authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", errors.New("invalid Authorization header scheme")
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errors.New("empty bearer token")
	}

	return token, nil
}
