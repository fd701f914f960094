package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "ana",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("identity-service-secret"))
	require.NoError(t, err)
	return signed
}

func TestCacheTTLCappedByTokenExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, now.Add(30*time.Second))

	assert.Equal(t, 30*time.Second, cacheTTL(token, 2*time.Minute, now))
	assert.Equal(t, 10*time.Second, cacheTTL(token, 10*time.Second, now))
}

func TestCacheTTLExpiredTokenIsNotCached(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	token := signedToken(t, now.Add(-time.Minute))

	assert.LessOrEqual(t, cacheTTL(token, 2*time.Minute, now), time.Duration(0))
}

func TestCacheTTLOpaqueToken(t *testing.T) {
	assert.Equal(t, time.Minute, cacheTTL("not-a-jwt", time.Minute, time.Now()))
}
