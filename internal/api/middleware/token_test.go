package middleware_test

import (
	"testing"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketgo/backend/internal/api/middleware"
)

var secret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	token, err := middleware.IssueToken(secret, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := middleware.ParseToken(secret, token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, userID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := middleware.IssueToken(secret, 42)
	require.NoError(t, err)

	_, err = middleware.ParseToken([]byte("other-secret"), token)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := middleware.ParseToken(secret, "not-a-token")
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)

	_, err = middleware.ParseToken(secret, "")
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	claims := jwt.MapClaims{
		"user_id": float64(42),
		"exp":     int64(1000000000), // long past
		"iss":     "marketgo-api",
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = middleware.ParseToken(secret, expired)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func TestParseToken_RejectsNonHMAC(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": float64(42),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = middleware.ParseToken(secret, unsigned)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}

func TestParseToken_MissingUserID(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": "marketgo-api",
	}).SignedString(secret)
	require.NoError(t, err)

	_, err = middleware.ParseToken(secret, token)
	assert.ErrorIs(t, err, middleware.ErrInvalidToken)
}
