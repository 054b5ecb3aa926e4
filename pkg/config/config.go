package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string
	Env  string

	FirebaseCredentialsPath string
	FirebaseStorageBucket   string

	PostgresConnStr   string
	MongoURI          string
	MongoDatabase     string
	MongoTransactions bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// AuthMode selects the identity bridge: "firebase" or "jwt".
	AuthMode     string
	JWTSecret    string
	AdminUserIDs []string

	LeaderboardTZ      string
	FeedDiscoverySize  int
	FeedSessionTTL     time.Duration
	RateLimitPerSecond float64
	AllowedOrigins     []string

	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
}

// Load reads configuration from the environment, after merging a .env file if one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		FirebaseStorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "dogrdb"),
		MongoTransactions:       getEnvBool("MONGO_TRANSACTIONS", false),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getEnvInt("REDIS_DB", 0),
		AuthMode:                getEnv("AUTH_MODE", "firebase"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		AdminUserIDs:            getEnvList("ADMIN_USER_IDS"),
		LeaderboardTZ:           getEnv("LEADERBOARD_TZ", "UTC"),
		FeedDiscoverySize:       getEnvInt("FEED_DISCOVERY_SIZE", 5),
		FeedSessionTTL:          getEnvDuration("FEED_SESSION_TTL", 30*time.Minute),
		RateLimitPerSecond:      getEnvFloat("RATE_LIMIT_PER_SECOND", 20),
		AllowedOrigins:          getEnvList("CORS_ALLOWED_ORIGINS"),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogPath:                 getEnv("LOG_PATH", ""),
		LogMaxSizeMB:            getEnvInt("LOG_MAX_SIZE_MB", 100),
		LogMaxBackups:           getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:           getEnvInt("LOG_MAX_AGE_DAYS", 7),
		LogCompress:             getEnvBool("LOG_COMPRESS", false),
	}
}

// Location resolves LeaderboardTZ, falling back to UTC on an unknown zone name.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LeaderboardTZ)
	if err != nil {
		log.Printf("Unknown LEADERBOARD_TZ %q, using UTC: %v", c.LeaderboardTZ, err)
		return time.UTC
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
