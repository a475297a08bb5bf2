package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"refrescobot/business/recommend"
	"refrescobot/domain"

	"github.com/redis/go-redis/v9"
)

const ratingStatsKey = "ratings:stats"

// RatingCache holds the catalog-wide rating stats as one hash, field per
// beverage id.
type RatingCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ recommend.RatingCache = (*RatingCache)(nil)

func NewRatingCache(client *redis.Client, ttl time.Duration) *RatingCache {
	return &RatingCache{client: client, ttl: ttl}
}

func (r *RatingCache) Get(ctx context.Context) (map[uint64]domain.RatingStats, bool, error) {
	raw, err := r.client.HGetAll(ctx, ratingStatsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read rating cache: %w", err)
	}
	if len(raw) == 0 {
		return nil, false, nil
	}

	out := make(map[uint64]domain.RatingStats, len(raw))
	for field, val := range raw {
		id, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			continue
		}
		var st domain.RatingStats
		if err := json.Unmarshal([]byte(val), &st); err != nil {
			return nil, false, fmt.Errorf("failed to decode rating stats for %d: %w", id, err)
		}
		out[id] = st
	}
	return out, true, nil
}

func (r *RatingCache) Set(ctx context.Context, stats map[uint64]domain.RatingStats) error {
	if len(stats) == 0 {
		return nil
	}
	values := make(map[string]any, len(stats))
	for id, st := range stats {
		b, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("failed to encode rating stats: %w", err)
		}
		values[strconv.FormatUint(id, 10)] = b
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, ratingStatsKey)
		pipe.HSet(ctx, ratingStatsKey, values)
		pipe.Expire(ctx, ratingStatsKey, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write rating cache: %w", err)
	}
	return nil
}

func (r *RatingCache) Invalidate(ctx context.Context) error {
	if err := r.client.Del(ctx, ratingStatsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rating cache: %w", err)
	}
	return nil
}
