package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/entrega-app/entrega/internal/service/models/review"
	"github.com/redis/go-redis/v9"
)

var ErrRatingNotCached = errors.New("rating not cached")

// RedisRatingCache caches aggregated restaurant ratings with a TTL so the
// browsing screen does not recompute averages on every request.
type RedisRatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRatingCache(client *redis.Client, ttl time.Duration) *RedisRatingCache {
	return &RedisRatingCache{client: client, ttl: ttl}
}

func ratingKey(restaurantID int64) string {
	return "rating:restaurant:" + strconv.FormatInt(restaurantID, 10)
}

// Get returns the cached rating, or ErrRatingNotCached on a miss.
func (c *RedisRatingCache) Get(ctx context.Context, restaurantID int64) (review.Rating, error) {
	payload, err := c.client.Get(ctx, ratingKey(restaurantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return review.Rating{}, ErrRatingNotCached
	}
	if err != nil {
		return review.Rating{}, fmt.Errorf("failed to get cached rating: %w", err)
	}

	var rating review.Rating
	if err := json.Unmarshal(payload, &rating); err != nil {
		return review.Rating{}, fmt.Errorf("failed to unmarshal cached rating: %w", err)
	}

	return rating, nil
}

// Set stores the rating with the cache TTL.
func (c *RedisRatingCache) Set(ctx context.Context, rating review.Rating) error {
	payload, err := json.Marshal(rating)
	if err != nil {
		return fmt.Errorf("failed to marshal rating: %w", err)
	}

	if err := c.client.Set(ctx, ratingKey(rating.RestaurantID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache rating: %w", err)
	}

	return nil
}

// Invalidate drops the cached rating after a new review.
func (c *RedisRatingCache) Invalidate(ctx context.Context, restaurantID int64) error {
	if err := c.client.Del(ctx, ratingKey(restaurantID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rating: %w", err)
	}

	return nil
}
