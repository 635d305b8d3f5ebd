package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/site-safety-service/internal/smarttext"
)

// DismissalStore keeps smart-text suggestion dismissals between requests.
// Dismissals are session scoped: each editing session gets its own Redis
// set with a sliding TTL, so abandoned sessions expire on their own.
type DismissalStore interface {
	Load(ctx context.Context, sessionID string) ([]smarttext.DismissKey, error)
	Add(ctx context.Context, sessionID string, key smarttext.DismissKey) error
}

type dismissalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDismissalStore builds a Redis-backed store.
func NewDismissalStore(client *redis.Client, ttl time.Duration) DismissalStore {
	return &dismissalStore{client: client, ttl: ttl}
}

func dismissalKey(sessionID string) string {
	return "smarttext:dismissed:" + sessionID
}

func (s *dismissalStore) Load(ctx context.Context, sessionID string) ([]smarttext.DismissKey, error) {
	members, err := s.client.SMembers(ctx, dismissalKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]smarttext.DismissKey, 0, len(members))
	for _, member := range members {
		start, original, ok := strings.Cut(member, "|")
		if !ok {
			continue
		}
		offset, err := strconv.Atoi(start)
		if err != nil {
			continue
		}
		keys = append(keys, smarttext.DismissKey{Start: offset, Original: original})
	}
	return keys, nil
}

func (s *dismissalStore) Add(ctx context.Context, sessionID string, key smarttext.DismissKey) error {
	redisKey := dismissalKey(sessionID)
	member := fmt.Sprintf("%d|%s", key.Start, key.Original)

	pipe := s.client.TxPipeline()
	pipe.SAdd(ctx, redisKey, member)
	pipe.Expire(ctx, redisKey, s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
