package tagcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/placebook/internal/db"
	"github.com/kailas-cloud/placebook/internal/domain"
)

type mockTagger struct {
	gen   domain.Generation
	err   error
	calls int
}

func (m *mockTagger) Generate(_ context.Context, _ string) (domain.Generation, error) {
	m.calls++
	return m.gen, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedTagger(t *testing.T, inner *mockTagger) (*CachedTagger, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ct := New(inner, ms, "pb:", time.Hour, nil, zap.NewNop())
	return ct, ms
}
