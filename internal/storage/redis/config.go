package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// TTL settings for different entity types. Zero means no expiry.
	MatchTTL     time.Duration
	ScorecardTTL time.Duration
	LaneTTL      time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MatchTTL:     24 * time.Hour,
		ScorecardTTL: 24 * time.Hour,
		LaneTTL:      0, // Lane history is kept
	}
}
