// Package cache provides the Redis-backed cart cache.
package cache

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/petfolk/pawmart/internal/domain/cart"
)

var _ cart.Cache = (*CartCache)(nil)

// CartCache caches whole carts in Redis with a jittered TTL so a burst of
// writes does not expire at the same instant.
type CartCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

// NewCartCache creates a CartCache with a 15 minute base TTL.
func NewCartCache(client *redis.Client) *CartCache {
	return &CartCache{client: client, baseTTL: 15 * time.Minute}
}

func cartKey(userID string) string {
	return "cart:" + userID
}

// Get returns the cached cart or cart.ErrCacheMiss.
func (c *CartCache) Get(ctx context.Context, userID string) (*cart.Cart, error) {
	data, err := c.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cart.ErrCacheMiss
	}
	if err != nil {
		return nil, errors.Wrap(err, "redis get")
	}

	var out cart.Cart
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "unmarshal cached cart")
	}
	return &out, nil
}

// Set stores the cart with the base TTL plus up to five minutes of jitter.
func (c *CartCache) Set(ctx context.Context, userID string, cc *cart.Cart) error {
	data, err := json.Marshal(cc)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}
	ttl := c.baseTTL + time.Duration(rand.Intn(5))*time.Minute
	if err := c.client.Set(ctx, cartKey(userID), data, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

// Delete drops the user's cached cart.
func (c *CartCache) Delete(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}

// Noop is a cart.Cache that caches nothing. Used when Redis is not
// configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*cart.Cart, error) { return nil, cart.ErrCacheMiss }
func (Noop) Set(context.Context, string, *cart.Cart) error   { return nil }
func (Noop) Delete(context.Context, string) error            { return nil }
