package identity

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bleupos/sales-service/pkg/enums"
	"github.com/bleupos/sales-service/pkg/logger"
)

type countingVerifier struct {
	calls     int
	principal *Principal
	err       error
}

func (c *countingVerifier) Verify(ctx context.Context, token string) (*Principal, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.principal, nil
}

type memoryStore struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryStore) PrincipalKey(tokenHash string) string {
	return "identity:" + tokenHash
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestCachingVerifierHitsUpstreamOnce(t *testing.T) {
	next := &countingVerifier{principal: &Principal{Username: "ana", Role: enums.RoleCashier}}
	store := newMemoryStore()
	verifier, err := NewCachingVerifier(next, store, time.Minute, testLogger())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		principal, err := verifier.Verify(context.Background(), "opaque-token")
		require.NoError(t, err)
		assert.Equal(t, "ana", principal.Username)
		assert.Equal(t, enums.RoleCashier, principal.Role)
	}
	assert.Equal(t, 1, next.calls)

	key := store.PrincipalKey(hashToken("opaque-token"))
	assert.Equal(t, time.Minute, store.ttls[key])
	assert.NotContains(t, key, "opaque-token", "raw tokens never become cache keys")
}

func TestCachingVerifierDoesNotCacheFailures(t *testing.T) {
	next := &countingVerifier{err: errors.New("rejected")}
	store := newMemoryStore()
	verifier, err := NewCachingVerifier(next, store, time.Minute, testLogger())
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), "tok")
	require.Error(t, err)
	_, err = verifier.Verify(context.Background(), "tok")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Empty(t, store.data)
}

func TestCachingVerifierDisabledWithZeroTTL(t *testing.T) {
	next := &countingVerifier{principal: &Principal{Username: "ana", Role: enums.RoleAdmin}}
	verifier, err := NewCachingVerifier(next, newMemoryStore(), 0, testLogger())
	require.NoError(t, err)

	_, _ = verifier.Verify(context.Background(), "tok")
	_, _ = verifier.Verify(context.Background(), "tok")
	assert.Equal(t, 2, next.calls)
}
