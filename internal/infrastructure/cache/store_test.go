package cache

import (
	"context"
	"testing"
	"time"

	"github.com/d8nd8/python-final-diplom/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInMemoryStore(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	value := []byte("pending")
	require.NoError(t, store.Set(ctx, "job-1", value, time.Hour))
	value[0] = 'X'

	got, err := store.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", string(got), "store keeps its own copy")

	require.NoError(t, store.Delete(ctx, "job-1"))
	_, err = store.Get(ctx, "job-1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInMemoryStore_Expiry(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("a"), time.Millisecond))
	require.NoError(t, store.Set(ctx, "forever", []byte("b"), 0))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.Equal(t, 1, store.Purge())
	got, err := store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
}

func TestFactory_DisabledRedisUsesMemory(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	f := NewFactory(config.RedisConfig{Enabled: false}, WithLogger(zap.New(core)))

	require.NoError(t, f.Connect())
	assert.Nil(t, f.Client())
	assert.IsType(t, &InMemoryStore{}, f.CreateStore("avatar:"))
	assert.Equal(t, 1, logs.FilterMessage("Redis disabled, using in-memory stores").Len())
	assert.NoError(t, f.Close())
}

func TestFactory_UnreachableRedis(t *testing.T) {
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	t.Run("falls back with a warning", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		f := NewFactory(cfg, WithLogger(zap.New(core)))
		require.NoError(t, f.Connect())
		assert.Nil(t, f.Client())
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("fails when fallback is disabled", func(t *testing.T) {
		f := NewFactory(cfg, WithInMemoryFallback(false))
		assert.Error(t, f.Connect())
	})
}
