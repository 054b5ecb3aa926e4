package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisFeedSessionRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := NewRedisFeedSessionRepository(client, time.Minute)
	ctx := context.Background()

	seen, err := repo.Seen(ctx, "u1:s1")
	require.NoError(t, err)
	assert.Empty(t, seen)

	require.NoError(t, repo.Remember(ctx, "u1:s1", []string{"p1", "p2"}))
	require.NoError(t, repo.Remember(ctx, "u1:s1", []string{"p2", "p3"}))
	require.NoError(t, repo.Remember(ctx, "u1:s1", nil))

	seen, err = repo.Seen(ctx, "u1:s1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, seen)

	mr.FastForward(2 * time.Minute)
	seen, err = repo.Seen(ctx, "u1:s1")
	require.NoError(t, err)
	assert.Empty(t, seen)
}
