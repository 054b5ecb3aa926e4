package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const feedSessionPrefix = "feed:seen:"

// RedisFeedSessionRepository remembers which discovery posts a feed session has
// already been served. Each key expires ttl after its last write.
type RedisFeedSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFeedSessionRepository creates a new RedisFeedSessionRepository
func NewRedisFeedSessionRepository(client *redis.Client, ttl time.Duration) *RedisFeedSessionRepository {
	return &RedisFeedSessionRepository{client: client, ttl: ttl}
}

// Seen returns the post ids already served under key
func (r *RedisFeedSessionRepository) Seen(ctx context.Context, key string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, feedSessionPrefix+key).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	return ids, nil
}

// Remember adds ids to the set under key and refreshes its expiry
func (r *RedisFeedSessionRepository) Remember(ctx context.Context, key string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}

	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, feedSessionPrefix+key, members...)
	pipe.Expire(ctx, feedSessionPrefix+key, r.ttl)
	_, err := pipe.Exec(ctx)
	return err
}
