package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"tripplanner/internal/adapters/observability"
)

// Cache stores JSON values in redis. It backs both the itinerary read cache
// and the travel-time pair cache; name labels its metrics.
type Cache struct {
	c    *redis.Client
	name string
}

func New(addr, pass string, db int) *Cache {
	return &Cache{c: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), name: "redis"}
}

// Named returns a view of the same connection reporting metrics under name.
func (r *Cache) Named(name string) *Cache { return &Cache{c: r.c, name: name} }

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache(r.name, "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache(r.name, "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	observability.ObserveCache(r.name, "set")
	return r.c.Set(ctx, key, b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache(r.name, "del")
	return r.c.Del(ctx, key).Err()
}
