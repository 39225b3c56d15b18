package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AanishRahmani/content-based-movie-recommender-system/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Cache stores assembled recommendation lists (with resolved poster URLs)
// keyed by title and limit, so repeat queries skip both the ranking and
// the poster fetches.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func buildKey(title string, limit int) string {
	return fmt.Sprintf("rec:movie:%s:limit:%d", title, limit)
}

// Get recommendations from cache
func (c *Cache) Get(ctx context.Context, title string, limit int) ([]domain.ScoredMovie, bool, error) {
	key := buildKey(title, limit)
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("failed to get recommendations from cache: %w", err)
	}

	var recs []domain.ScoredMovie
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal recommendations %s: %w", key, err)
	}

	return recs, true, nil
}

// Store recommendations in cache
func (c *Cache) Set(ctx context.Context, title string, limit int, recs []domain.ScoredMovie) error {
	key := buildKey(title, limit)
	val, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set recommendations in cache: %w", err)
	}

	return nil
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
