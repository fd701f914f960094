package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bleupos/sales-service/pkg/logger"
	"github.com/bleupos/sales-service/pkg/redis"
)

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	PrincipalKey(tokenHash string) string
}

// CachingVerifier memoizes successful lookups in Redis until the token or the cache TTL expires.
type CachingVerifier struct {
	next  Verifier
	store cacheStore
	ttl   time.Duration
	logg  *logger.Logger
	now   func() time.Time
}

// NewCachingVerifier wraps next with a Redis-backed cache.
func NewCachingVerifier(next Verifier, store cacheStore, ttl time.Duration, logg *logger.Logger) (*CachingVerifier, error) {
	if next == nil {
		return nil, fmt.Errorf("identity verifier required")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &CachingVerifier{next: next, store: store, ttl: ttl, logg: logg, now: time.Now}, nil
}

func (v *CachingVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	if v.ttl <= 0 {
		return v.next.Verify(ctx, token)
	}

	key := v.store.PrincipalKey(hashToken(token))
	if cached, err := v.store.Get(ctx, key); err == nil {
		var principal Principal
		if jsonErr := json.Unmarshal([]byte(cached), &principal); jsonErr == nil && principal.Username != "" {
			return &principal, nil
		}
	} else if !redis.IsMiss(err) {
		v.logg.Warn(v.logg.WithField(ctx, "error", err.Error()), "identity cache read failed")
	}

	principal, err := v.next.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	ttl := cacheTTL(token, v.ttl, v.now())
	if ttl <= 0 {
		return principal, nil
	}
	payload, err := json.Marshal(principal)
	if err != nil {
		return principal, nil
	}
	if err := v.store.Set(ctx, key, string(payload), ttl); err != nil {
		v.logg.Warn(v.logg.WithField(ctx, "error", err.Error()), "identity cache write failed")
	}
	return principal, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
