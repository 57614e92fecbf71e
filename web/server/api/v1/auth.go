package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.hackfix.me/curator/db/models"
	"go.hackfix.me/curator/web/server/types"
)

// Login exchanges admin credentials for an API token.
func (h *Handler) Login(ctx context.Context, req *types.LoginRequest) (*types.LoginResponse, error) {
	user, err := models.Authenticate(ctx, h.appCtx.DB, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			h.logger.Warn("failed login attempt", "username", req.Username,
				"remote_addr", req.RemoteAddr)
			return nil, types.NewError(http.StatusUnauthorized, err.Error())
		}
		return nil, err
	}

	token, expiresAt, err := h.opts.Issuer.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed issuing API token: %w", err)
	}

	return types.NewLoginResponse(token, expiresAt, user), nil
}

// Check returns the user the API token was issued to.
func (h *Handler) Check(_ context.Context, req *types.BaseRequest) (*types.UserResponse, error) {
	return types.NewUserResponse(req.User), nil
}
