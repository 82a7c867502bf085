package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardfolio/cardfolio-backend/internal/cards/domain"
)

const (
	viewKeyPrefix = "card:view:"     // Cached public card JSON: card:view:{slug}
	viewTTL       = 15 * time.Minute // Writes invalidate eagerly; the TTL is a backstop
)

// ViewCache caches rendered public cards in Redis, keyed by share slug.
// It is best-effort: the viewer falls through to Postgres on a miss or a
// Redis outage, so correctness never depends on it.
type ViewCache struct {
	client *redis.Client
}

func NewViewCache(client *redis.Client) *ViewCache {
	return &ViewCache{client: client}
}

// Get returns the cached card for the slug, or (nil, nil) on a miss.
func (c *ViewCache) Get(ctx context.Context, slug string) (*domain.PublicCard, error) {
	data, err := c.client.Get(ctx, viewKeyPrefix+slug).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}

	var card domain.PublicCard
	if err := json.Unmarshal([]byte(data), &card); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	return &card, nil
}

// Set stores the card under its slug with the cache TTL.
func (c *ViewCache) Set(ctx context.Context, slug string, card *domain.PublicCard) error {
	data, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, viewKeyPrefix+slug, data, viewTTL).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached cards for the given slugs. Called after any
// write to a profile or one of its designs.
func (c *ViewCache) Invalidate(ctx context.Context, slugs ...string) error {
	if len(slugs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, viewKeyPrefix+s)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
