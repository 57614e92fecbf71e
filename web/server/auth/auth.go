// Package auth issues and verifies the bearer tokens of admin API clients, and
// decides which actions a client is allowed to perform.
package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"

	"go.hackfix.me/curator/db/models"
)

const (
	issuer     = "curator"
	secretSize = 32
)

// ErrInvalidToken is returned when a token is malformed, expired, or not
// signed with the expected key.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims of an admin API token. The subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Issuer creates and verifies HS256 signed tokens.
type Issuer struct {
	key        []byte
	expiration time.Duration
	timeNow    func() time.Time
}

// NewIssuer returns a new Issuer that signs tokens with the base58 encoded
// secret, valid for the given expiration.
func NewIssuer(secret string, expiration time.Duration, timeNow func() time.Time) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token secret is not set")
	}
	key, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("failed decoding token secret: %w", err)
	}
	if len(key) < secretSize {
		return nil, fmt.Errorf("token secret must be at least %d bytes, got %d", secretSize, len(key))
	}

	return &Issuer{key: key, expiration: expiration, timeNow: timeNow}, nil
}

// NewSecret returns a new random token secret encoded as base58.
func NewSecret() (string, error) {
	key := make([]byte, secretSize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed generating token secret: %w", err)
	}

	return base58.Encode(key), nil
}

// Issue returns a signed token for user, and the time it expires at.
func (i *Issuer) Issue(user *models.User) (string, time.Time, error) {
	now := i.timeNow().UTC()
	expiresAt := now.Add(i.expiration)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Username: user.Username,
		Role:     RoleAdmin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed signing token: %w", err)
	}

	return token, expiresAt, nil
}

// Verify parses the token and validates its signature and expiration.
func (i *Issuer) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.timeNow),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
