package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gota/business/cafe"

	"github.com/redis/go-redis/v9"
)

const defaultHistoryTTL = 24 * time.Hour

// ViewHistoryRepository keeps the last cafes viewed per session as a capped
// redis list, oldest first.
type ViewHistoryRepository struct {
	client *redis.Client
	size   int
	ttl    time.Duration
}

var _ cafe.ViewHistoryRepository = (*ViewHistoryRepository)(nil)

func NewViewHistoryRepository(client *redis.Client, size int, ttl time.Duration) *ViewHistoryRepository {
	if ttl <= 0 {
		ttl = defaultHistoryTTL
	}
	return &ViewHistoryRepository{
		client: client,
		size:   size,
		ttl:    ttl,
	}
}

func historyKey(sessionID string) string {
	// key format: "views:session:{session_id}"
	return fmt.Sprintf("views:session:%s", sessionID)
}

func (r *ViewHistoryRepository) RecordView(ctx context.Context, sessionID string, cafeID uint64) error {
	key := historyKey(sessionID)

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, cafeID)
		if r.size > 0 {
			pipe.LTrim(ctx, key, int64(-r.size), -1)
		}
		pipe.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store view in Redis: %w", err)
	}

	return nil
}

func (r *ViewHistoryRepository) RecentlyViewed(ctx context.Context, sessionID string) ([]uint64, error) {
	vals, err := r.client.LRange(ctx, historyKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get view history from Redis: %w", err)
	}

	return parseHistory(vals), nil
}

// parseHistory skips entries that are not cafe ids.
func parseHistory(vals []string) []uint64 {
	out := make([]uint64, 0, len(vals))
	for _, v := range vals {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
