// Package auth is responsible for authentication and authorization.
// This includes issuing and verifying JWTs (TokenService), the bearer-token middleware
// that resolves the caller into a user, the role guard that gates routes, and the
// login/verify HTTP handlers.
package auth

import (
	"errors"
	"fmt"
	"time"

	// Third-party library for JWT handling. `jwt/v5` indicates version 5.
	"github.com/golang-jwt/jwt/v5"

	"github.com/user/ems-go/config"
)

// ErrInvalidToken is returned by Verify for any token that must not be trusted:
// bad signature, unexpected algorithm, malformed payload, missing subject, or expired.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload. `_id` carries the user identifier; the embedded
// RegisteredClaims carry `sub`, `iat` and `exp`.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-bound tokens.
// Tokens are stateless: there is no revocation list, so rotating JWT_SECRET is the
// only way to invalidate tokens before they expire.
type TokenService struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewTokenService creates a TokenService from the auth configuration.
func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		expiry: cfg.TokenExpiry,
		now:    time.Now,
	}
}

// Issue signs a token for userID and returns it with its expiry time.
func (s *TokenService) Issue(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, errors.New("cannot issue token without user id")
	}

	now := s.now()
	expiresAt := now.Add(s.expiry)
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks tokenString and returns the user id it was issued for.
// Every failure wraps ErrInvalidToken; the wrapped cause says why.
func (s *TokenService) Verify(tokenString string) (string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", fmt.Errorf("%w: missing _id claim", ErrInvalidToken)
	}
	return claims.UserID, nil
}
