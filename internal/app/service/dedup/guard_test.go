package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/paylist/pkg/config"
)

func setupTestRedis(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return client, mr
}

func exerciseGuard(t *testing.T, g Guard) {
	t.Helper()
	ctx := context.Background()

	ok, err := g.Claim(ctx, "sig-a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = g.Claim(ctx, "sig-a")
	require.NoError(t, err)
	require.False(t, ok, "second claim of the same delivery must be refused")

	ok, err = g.Claim(ctx, "sig-b")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, g.Release(ctx, "sig-a"))
	ok, err = g.Claim(ctx, "sig-a")
	require.NoError(t, err)
	require.True(t, ok, "released key can be claimed again")
}

func TestMemoryGuard(t *testing.T) {
	exerciseGuard(t, NewMemoryGuard(16, time.Minute))
}

func TestRedisGuard(t *testing.T) {
	rdb, _ := setupTestRedis(t)
	exerciseGuard(t, NewRedisGuard(rdb, time.Minute))
}

func TestRedisGuard_Expires(t *testing.T) {
	rdb, mr := setupTestRedis(t)
	g := NewRedisGuard(rdb, time.Minute)
	ctx := context.Background()

	ok, err := g.Claim(ctx, "sig-ttl")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mr.Exists(keyPrefix+"sig-ttl"))

	mr.FastForward(2 * time.Minute)
	ok, err = g.Claim(ctx, "sig-ttl")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisGuard_ErrorWhenUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	_, err = NewRedisGuard(rdb, time.Minute).Claim(context.Background(), "k")
	require.Error(t, err)
}

func TestNew_PicksBackend(t *testing.T) {
	cfg := &cfgpkg.Config{Dedup: cfgpkg.DedupConfig{TTL: time.Hour, LRUSize: 8}}
	log := zap.NewNop().Sugar()

	_, isMemory := New(log, cfg, nil).(*MemoryGuard)
	require.True(t, isMemory)

	rdb, _ := setupTestRedis(t)
	_, isRedis := New(log, cfg, rdb).(*RedisGuard)
	require.True(t, isRedis)
}
