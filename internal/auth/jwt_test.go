package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTResolver_RoundTrip(t *testing.T) {
	r := NewJWTResolver("secret")

	token, err := r.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	owner, err := r.ResolveOwner(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "user-1", owner)
}

func TestJWTResolver_RejectsWrongSecret(t *testing.T) {
	token, err := NewJWTResolver("secret").IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTResolver("other").ResolveOwner(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTResolver_RejectsExpired(t *testing.T) {
	r := NewJWTResolver("secret")
	r.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := r.IssueToken("user-1", time.Hour)
	require.NoError(t, err)

	r.now = time.Now
	_, err = r.ResolveOwner(context.Background(), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTResolver_RejectsRefreshTokens(t *testing.T) {
	claims := &TokenClaims{UserID: "user-1", TokenType: "refresh"}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTResolver("secret").ResolveOwner(context.Background(), raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTResolver_FallsBackToSubject(t *testing.T) {
	claims := &TokenClaims{TokenType: "access", RegisteredClaims: jwt.RegisteredClaims{Subject: "user-2"}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	owner, err := NewJWTResolver("secret").ResolveOwner(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "user-2", owner)
}
