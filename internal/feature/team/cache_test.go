package team

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"member-management/internal/core/cache"
)

// memStore 内存版 VersionedStore
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
	vers map[string]int64
	down bool
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, vers: map[string]int64{}}
}

func (m *memStore) Key(parts ...string) string { return "mm:" + strings.Join(parts, ":") }

func (m *memStore) GetOrLoad(ctx context.Context, key string, _ time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	m.mu.Lock()
	b, ok := m.data[key]
	m.mu.Unlock()
	if ok {
		return b, nil
	}
	b, err := load(ctx)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
	return b, nil
}

func (m *memStore) Version(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return 0, errors.New("redis down")
	}
	return m.vers[key], nil
}

func (m *memStore) Bump(_ context.Context, key string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.down {
		return errors.New("redis down")
	}
	m.vers[key]++
	return nil
}

func loader(calls *int, name string) func(context.Context) (*DTO, error) {
	return func(context.Context) (*DTO, error) {
		*calls++
		return &DTO{ID: 7, Name: name + strconv.Itoa(*calls)}, nil
	}
}

func TestCache_HitAndInvalidate(t *testing.T) {
	ctx := context.Background()
	tc := NewCache(newMemStore(), time.Minute, zap.NewNop())
	calls := 0

	got, err := tc.GetOrLoad(ctx, 7, loader(&calls, "Alpha"))
	require.NoError(t, err)
	assert.Equal(t, "Alpha1", got.Name)

	got, err = tc.GetOrLoad(ctx, 7, loader(&calls, "Alpha"))
	require.NoError(t, err)
	assert.Equal(t, "Alpha1", got.Name)
	assert.Equal(t, 1, calls)

	tc.Invalidate(ctx, 7)
	got, err = tc.GetOrLoad(ctx, 7, loader(&calls, "Alpha"))
	require.NoError(t, err)
	assert.Equal(t, "Alpha2", got.Name)
}

func TestCache_LateLoaderAfterDeleteIsNotServed(t *testing.T) {
	ctx := context.Background()
	tc := NewCache(newMemStore(), time.Minute, zap.NewNop())

	// 回源读到删除前的行，写缓存前删除已提交并完成失效
	stale, err := tc.GetOrLoad(ctx, 7, func(ctx context.Context) (*DTO, error) {
		tc.Invalidate(ctx, 7)
		return &DTO{ID: 7, Name: "Alpha"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", stale.Name)

	gone := errors.New("Team not found with id: 7")
	_, err = tc.GetOrLoad(ctx, 7, func(context.Context) (*DTO, error) { return nil, gone })
	assert.ErrorIs(t, err, gone)
}

func TestCache_VersionUnknownBypassesCache(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	core, logs := observer.New(zap.WarnLevel)
	tc := NewCache(store, time.Minute, zap.New(core))
	calls := 0

	_, err := tc.GetOrLoad(ctx, 7, loader(&calls, "Alpha"))
	require.NoError(t, err)

	store.down = true
	got, err := tc.GetOrLoad(ctx, 7, loader(&calls, "Alpha"))
	require.NoError(t, err)
	assert.Equal(t, "Alpha2", got.Name)

	tc.Invalidate(ctx, 7)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(7), logs.All()[0].ContextMap()["team_id"])
}

func TestCache_LoadsThroughWhenRedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	tc := NewCache(cache.NewWithClient(rdb, "mm"), time.Minute, zap.NewNop())

	assert.Equal(t, "mm:team:42:v3", tc.key(42, 3))
	assert.Equal(t, "mm:team:42:ver", tc.verKey(42))

	got, err := tc.GetOrLoad(context.Background(), 42, func(context.Context) (*DTO, error) {
		return &DTO{ID: 42, Name: "Alpha"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Name)

	tc.Invalidate(context.Background(), 42)
}
