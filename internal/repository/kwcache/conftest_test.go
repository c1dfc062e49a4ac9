package kwcache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/rex/internal/db"
)

type mockModel struct {
	keywords []string
	err      error
	calls    atomic.Int32
	gate     chan struct{} // when set, calls block until closed
}

func (m *mockModel) ExtractKeywords(_ context.Context, _ string) ([]string, error) {
	m.calls.Add(1)
	if m.gate != nil {
		<-m.gate
	}
	return m.keywords, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	ttls  map[string]time.Duration
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
		m.ttls = make(map[string]time.Duration)
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func newTestCachedModel(t *testing.T, inner *mockModel) (*CachedModel, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	return New(inner, ms, "test-model", time.Hour, nil, zap.NewNop()), ms
}
