package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharebnb/sharebnb-api/internal/core/domain"
)

const defaultCacheTTL = 5 * time.Minute

// ListingCache stores listing details as JSON.
// Key format: listing:<id>
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListingCache(client *redis.Client, ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &ListingCache{client: client, ttl: ttl}
}

// Get returns the cached listing, or nil on a miss.
func (c *ListingCache) Get(ctx context.Context, id int64) (*domain.Listing, error) {
	b, err := c.client.Get(ctx, listingKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing cache get: %w", err)
	}

	var l domain.Listing
	if err := json.Unmarshal(b, &l); err != nil {
		return nil, fmt.Errorf("listing cache decode: %w", err)
	}
	return &l, nil
}

func (c *ListingCache) Set(ctx context.Context, l *domain.Listing) error {
	b, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(l.ID), b, c.ttl).Err()
}

func (c *ListingCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, listingKey(id)).Err()
}

func listingKey(id int64) string {
	return fmt.Sprintf("listing:%d", id)
}
