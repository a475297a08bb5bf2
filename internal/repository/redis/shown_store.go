package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"refrescobot/business/recommend"

	"github.com/redis/go-redis/v9"
)

// ShownStore keeps one set of offered beverage ids and one page counter per
// session. Both expire together after ttl of inactivity.
type ShownStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ recommend.ShownStore = (*ShownStore)(nil)

func NewShownStore(client *redis.Client, ttl time.Duration) *ShownStore {
	return &ShownStore{client: client, ttl: ttl}
}

func shownKey(sessionID string) string { return fmt.Sprintf("session:%s:shown", sessionID) }

func pageKey(sessionID string) string { return fmt.Sprintf("session:%s:pages", sessionID) }

func (s *ShownStore) Add(ctx context.Context, sessionID string, beverageIDs ...uint64) error {
	if len(beverageIDs) == 0 {
		return nil
	}
	members := make([]any, len(beverageIDs))
	for i, id := range beverageIDs {
		members[i] = strconv.FormatUint(id, 10)
	}

	key := shownKey(sessionID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, key, members...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record shown options: %w", err)
	}
	return nil
}

func (s *ShownStore) Members(ctx context.Context, sessionID string) (map[uint64]bool, error) {
	raw, err := s.client.SMembers(ctx, shownKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read shown options: %w", err)
	}
	out := make(map[uint64]bool, len(raw))
	for _, m := range raw {
		if id, err := strconv.ParseUint(m, 10, 64); err == nil {
			out[id] = true
		}
	}
	return out, nil
}

func (s *ShownStore) NextPage(ctx context.Context, sessionID string) (int, error) {
	key := pageKey(sessionID)
	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to advance page counter: %w", err)
	}
	return int(incr.Val()), nil
}
