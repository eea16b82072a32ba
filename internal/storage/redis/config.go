package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// LoginCodeTTL bounds how long issued login codes are kept.
	// Zero keeps them forever. Users, sessions, games and snapshots never expire.
	LoginCodeTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		LoginCodeTTL: 24 * time.Hour,
	}
}
