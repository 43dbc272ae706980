// Package balancecache provides a Redis cache-aside layer for balance reads.
//
// The cache is strictly best effort: every failure degrades to a miss and the
// store remains the source of truth. Debits invalidate the cached entry.
package balancecache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/andreycr/sinpe-ledger/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "balance:"

// Cache caches balance records in Redis with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New returns a Cache backed by the given Redis client.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached balance for the account and whether it was present.
func (c *Cache) Get(ctx context.Context, accountID string) (domain.Balance, bool) {
	l := zerolog.Ctx(ctx)

	data, err := c.client.Get(ctx, keyPrefix+accountID).Bytes()
	if err != nil {
		if err != redis.Nil {
			l.Warn().Err(err).Msg("balance cache read failed")
		}

		return domain.Balance{}, false
	}

	var b domain.Balance
	if err := json.Unmarshal(data, &b); err != nil {
		l.Warn().Err(err).Msg("balance cache entry corrupt")
		return domain.Balance{}, false
	}

	return b, true
}

// Set stores the balance under its account key.
func (c *Cache) Set(ctx context.Context, b domain.Balance) {
	l := zerolog.Ctx(ctx)

	data, err := json.Marshal(b)
	if err != nil {
		l.Warn().Err(err).Msg("balance cache encode failed")
		return
	}

	if err := c.client.Set(ctx, keyPrefix+b.AccountID, data, c.ttl).Err(); err != nil {
		l.Warn().Err(err).Msg("balance cache write failed")
	}
}

// Invalidate drops the cached balance for the account.
func (c *Cache) Invalidate(ctx context.Context, accountID string) {
	l := zerolog.Ctx(ctx)

	if err := c.client.Del(ctx, keyPrefix+accountID).Err(); err != nil {
		l.Warn().Err(err).Msg("balance cache invalidate failed")
	}
}
