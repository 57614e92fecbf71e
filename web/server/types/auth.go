package types

import (
	"net/http"
	"time"

	"go.hackfix.me/curator/db/models"
)

// LoginRequest is the request to exchange admin credentials for an API token.
type LoginRequest struct {
	BaseRequest `json:"-"`
	Username    string `json:"username"`
	Password    string `json:"password"`
}

// Validate checks that the request is valid and ready for processing.
func (r *LoginRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return NewError(http.StatusBadRequest, "username and password must not be empty")
	}
	return nil
}

// LoginResponse is the response to a successful login.
type LoginResponse struct {
	BaseResponse
	Data LoginResponseData `json:"data"`
}

// LoginResponseData is the data sent in the LoginResponse.
type LoginResponseData struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// NewLoginResponse creates a new LoginResponse with HTTP 200 status.
func NewLoginResponse(token string, expiresAt time.Time, user *models.User) *LoginResponse {
	return &LoginResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Data:         LoginResponseData{Token: token, ExpiresAt: expiresAt, User: NewUser(user)},
	}
}

// User is the public representation of an admin user.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// NewUser converts a user model into its API representation.
func NewUser(u *models.User) User {
	user := User{ID: u.ID, Username: u.Username}
	if u.LastLogin.Valid {
		user.LastLogin = &u.LastLogin.V
	}
	return user
}

// UserResponse is the response with the authenticated user.
type UserResponse struct {
	BaseResponse
	Data User `json:"data"`
}

// NewUserResponse creates a new UserResponse with HTTP 200 status.
func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Data:         NewUser(u),
	}
}
