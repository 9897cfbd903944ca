// Package rediscache is an optional, distributed implementation of
// fx.Cache backed by github.com/redis/go-redis/v9, for deployments where
// several processes should share one FX cache rather than each keeping
// its own in-process fx.TTLCache (spec.md §4.9 "domain stack" wiring).
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/tellimer/indicator-normalizer/internal/econ"
)

// Cache adapts a *redis.Client to the fx.Cache interface. It intentionally
// does not import package fx (which would create an import cycle with
// fx's tests); callers wire it in via the fx.Cache interface at
// construction time.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ctx    context.Context
	log    zerolog.Logger
}

// New wraps an existing redis client. ctx is used for all commands; pass
// context.Background() if per-call cancellation isn't needed.
func New(ctx context.Context, rdb *redis.Client, prefix string, logger zerolog.Logger) *Cache {
	if prefix == "" {
		prefix = "econ:fx:"
	}
	return &Cache{rdb: rdb, prefix: prefix, ctx: ctx, log: logger}
}

// Get implements fx.Cache.
func (c *Cache) Get(key string) (econ.FXTable, bool) {
	raw, err := c.rdb.Get(c.ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug().Err(err).Str("key", key).Msg("redis fx cache get failed")
		}
		return econ.FXTable{}, false
	}
	var table econ.FXTable
	if err := json.Unmarshal(raw, &table); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("redis fx cache entry corrupt")
		return econ.FXTable{}, false
	}
	return table, true
}

// Set implements fx.Cache.
func (c *Cache) Set(key string, table econ.FXTable, ttl time.Duration) {
	raw, err := json.Marshal(table)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("redis fx cache marshal failed")
		return
	}
	if err := c.rdb.Set(c.ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("redis fx cache set failed")
	}
}
