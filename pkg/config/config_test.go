package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_DATABASE", "AUTH_MODE", "FEED_DISCOVERY_SIZE", "FEED_SESSION_TTL", "LEADERBOARD_TZ", "ADMIN_USER_IDS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dogrdb", cfg.MongoDatabase)
	assert.Equal(t, "firebase", cfg.AuthMode)
	assert.Equal(t, 5, cfg.FeedDiscoverySize)
	assert.Equal(t, 30*time.Minute, cfg.FeedSessionTTL)
	assert.Nil(t, cfg.AdminUserIDs)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("FEED_DISCOVERY_SIZE", "8")
	t.Setenv("FEED_SESSION_TTL", "5m")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")
	t.Setenv("ADMIN_USER_IDS", " a, ,b ")
	t.Setenv("LEADERBOARD_TZ", "America/New_York")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, 8, cfg.FeedDiscoverySize)
	assert.Equal(t, 5*time.Minute, cfg.FeedSessionTTL)
	assert.Equal(t, 2.5, cfg.RateLimitPerSecond)
	assert.Equal(t, []string{"a", "b"}, cfg.AdminUserIDs)
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestBadValuesFallBack(t *testing.T) {
	t.Setenv("FEED_DISCOVERY_SIZE", "many")
	t.Setenv("LEADERBOARD_TZ", "Mars/Olympus")

	cfg := Load()
	assert.Equal(t, 5, cfg.FeedDiscoverySize)
	assert.Equal(t, time.UTC, cfg.Location())
}
