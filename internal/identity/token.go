package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// cacheTTL caps the configured TTL at the token's own expiry when the token is a JWT.
// The signature is not checked here; the identity service remains the verifier.
func cacheTTL(token string, configured time.Duration, now time.Time) time.Duration {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return configured
	}
	if claims.ExpiresAt == nil {
		return configured
	}
	remaining := claims.ExpiresAt.Sub(now)
	if remaining < configured {
		return remaining
	}
	return configured
}
