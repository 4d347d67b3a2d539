// Package dedup suppresses exact redeliveries of webhook bodies.
//
// Paystack retries a delivery until it sees a 2xx, and may also resend one
// it already received. A claim is taken per delivery key before processing
// and released again if processing fails, so only successful work is
// remembered.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/paylist/pkg/config"
)

const keyPrefix = "paylist:webhook:delivery:"

// Guard claims delivery keys for a limited time.
type Guard interface {
	// Claim returns true when key was not claimed before and is now held by the caller.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so a later delivery is processed again.
	Release(ctx context.Context, key string) error
}

// RedisGuard shares claims across instances.
type RedisGuard struct {
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisGuard(rdb *goredis.Client, ttl time.Duration) *RedisGuard {
	return &RedisGuard{rdb: rdb, ttl: ttl}
}

func (g *RedisGuard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

func (g *RedisGuard) Release(ctx context.Context, key string) error {
	if err := g.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

// MemoryGuard keeps claims in a bounded expiring LRU. Claims are per process.
type MemoryGuard struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, time.Time]
}

func NewMemoryGuard(size int, ttl time.Duration) *MemoryGuard {
	if size <= 0 {
		size = 10000
	}
	return &MemoryGuard{cache: expirable.NewLRU[string, time.Time](size, nil, ttl)}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cache.Contains(key) {
		return false, nil
	}
	g.cache.Add(key, time.Now())
	return true, nil
}

func (g *MemoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cache.Remove(key)
	return nil
}

// New picks the Redis guard when a client is available.
func New(l *zap.SugaredLogger, cfg *cfgpkg.Config, rdb *goredis.Client) Guard {
	ttl := cfg.Dedup.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if rdb != nil {
		l.Infow("delivery guard", "backend", "redis", "ttl", ttl)
		return NewRedisGuard(rdb, ttl)
	}
	l.Infow("delivery guard", "backend", "memory", "ttl", ttl, "size", cfg.Dedup.LRUSize)
	return NewMemoryGuard(cfg.Dedup.LRUSize, ttl)
}

var Module = fx.Options(
	fx.Provide(New),
)
