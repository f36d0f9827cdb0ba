package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/ems-go/config"
)

func newTestTokenService(now time.Time) *TokenService {
	s := NewTokenService(config.AuthConfig{JWTSecret: "test-secret", TokenExpiry: time.Hour})
	s.now = func() time.Time { return now }
	return s
}

func TestTokenService_IssueVerify(t *testing.T) {
	now := time.Now()
	s := newTestTokenService(now)

	token, expiresAt, err := s.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	id, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestTokenService_Issue_EmptyUserID(t *testing.T) {
	s := newTestTokenService(time.Now())
	_, _, err := s.Issue("")
	assert.Error(t, err)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	issuedAt := time.Now()
	s := newTestTokenService(issuedAt)
	token, _, err := s.Issue("user-1")
	require.NoError(t, err)

	s.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_Verify_Rejects(t *testing.T) {
	now := time.Now()
	s := newTestTokenService(now)
	good, _, err := s.Issue("user-1")
	require.NoError(t, err)

	forged, _, err := s.Issue("user-2")
	require.NoError(t, err)
	goodParts := strings.Split(good, ".")
	forgedParts := strings.Split(forged, ".")
	tampered := goodParts[0] + "." + forgedParts[1] + "." + goodParts[2]

	other := NewTokenService(config.AuthConfig{JWTSecret: "another-secret", TokenExpiry: time.Hour})
	foreign, _, err := other.Issue("user-1")
	require.NoError(t, err)

	claims := &Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{RegisteredClaims: claims.RegisteredClaims}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "user-1"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"tampered payload", tampered},
		{"wrong secret", foreign},
		{"unexpected algorithm", hs512},
		{"none algorithm", unsigned},
		{"missing _id", noID},
		{"missing exp", noExpiry},
		{"garbage", "not-a-jwt"},
		{"empty", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Verify(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
