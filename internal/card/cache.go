package card

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	platformredis "vaxcard/internal/platform/redis"
	id "vaxcard/pkg/domain"
)

// cacheTTL backstops explicit invalidation; stale entries age out even if an
// invalidation is lost.
const cacheTTL = 5 * time.Minute

// Cache keeps serialized card projections in Redis. It is strictly an
// optimization: every error degrades to a recomputation. A nil *Cache is a
// valid no-op so wiring stays unconditional.
type Cache struct {
	client *platformredis.Client
	logger *slog.Logger
}

// NewCache wraps a Redis client; returns nil when the client is nil
// (Redis not configured).
func NewCache(client *platformredis.Client, logger *slog.Logger) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, logger: logger}
}

func matrixKey(personID id.PersonID, all bool) string {
	if all {
		return fmt.Sprintf("card:%s:matrix:all", personID)
	}
	return fmt.Sprintf("card:%s:matrix:mine", personID)
}

func listKey(personID id.PersonID) string {
	return fmt.Sprintf("card:%s:list", personID)
}

func personKeys(personID id.PersonID) []string {
	return []string{
		matrixKey(personID, true),
		matrixKey(personID, false),
		listKey(personID),
	}
}

func (c *Cache) get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(payload, out); err != nil {
		c.warn(ctx, "corrupt cache entry", key, err)
		_ = c.client.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) set(ctx context.Context, key string, v any) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
		c.warn(ctx, "failed to cache card projection", key, err)
	}
}

// InvalidatePerson drops every cached projection for one person.
func (c *Cache) InvalidatePerson(ctx context.Context, personID id.PersonID) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, personKeys(personID)...).Err(); err != nil {
		c.warn(ctx, "failed to invalidate card cache", personID.String(), err)
	}
}

// InvalidateAll drops the whole card cache; used when a catalog mutation can
// touch any person's card.
func (c *Cache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	iter := c.client.Scan(ctx, 0, "card:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.warn(ctx, "failed to invalidate card cache", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		c.warn(ctx, "card cache scan failed", "card:*", err)
	}
}

func (c *Cache) warn(ctx context.Context, msg, key string, err error) {
	if c.logger != nil {
		c.logger.WarnContext(ctx, msg, "key", key, "error", err)
	}
}
