// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// card.go stores computed category hover cards in Valkey. Each card is one
// key holding the serialized payload; the key's TTL is the card's expiry,
// so an entry is always replaced as a whole.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// cardKeyPrefix is the Valkey key prefix for cached category cards.
	cardKeyPrefix = "category:card:"

	// DefaultCardTTL is how long a computed card stays cached.
	DefaultCardTTL = time.Hour
)

// CardKey returns the Valkey key for a category's card.
func CardKey(categoryID int64) string {
	return cardKeyPrefix + strconv.FormatInt(categoryID, 10)
}

// CardCache keeps category cards in Valkey.
type CardCache struct {
	client *redis.Client
}

// NewCardCache creates a card cache backed by the given Valkey client.
func NewCardCache(client *redis.Client) *CardCache {
	return &CardCache{client: client}
}

// Get returns the cached card. ok is false on a miss; err reports a failed
// round trip.
func (c *CardCache) Get(ctx context.Context, categoryID int64) (value []byte, ok bool, err error) {
	val, err := c.client.Get(ctx, CardKey(categoryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("card cache get %d: %w", categoryID, err)
	}
	return val, true, nil
}

// Set stores a card, replacing any previous entry, for ttl.
func (c *CardCache) Set(ctx context.Context, categoryID int64, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCardTTL
	}
	if err := c.client.Set(ctx, CardKey(categoryID), value, ttl).Err(); err != nil {
		return fmt.Errorf("card cache set %d: %w", categoryID, err)
	}
	return nil
}

// Delete drops a single card.
func (c *CardCache) Delete(ctx context.Context, categoryID int64) error {
	if err := c.client.Del(ctx, CardKey(categoryID)).Err(); err != nil {
		return fmt.Errorf("card cache delete %d: %w", categoryID, err)
	}
	return nil
}

// Flush removes every cached card by scanning for the prefix. Cards are a
// pure optimization, so this is always safe.
func (c *CardCache) Flush(ctx context.Context) error {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, cardKeyPrefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("card cache scan: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("card cache bulk delete: %w", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("card cache flushed", "deleted", deleted)
	}
	return nil
}
