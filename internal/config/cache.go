package config

import "time"

// CacheConfig controls the Redis response cache middleware used on public
// catalog and flight-search routes. Only successful GET responses are
// cached; TTL bounds how stale a cached search may be.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* environment variables with defaults suited
// to catalog data (short TTL, 1 MiB body cap).
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      getenv("CACHE_ENABLED", "true") == "true",
		TTL:          durDefault(getenv("CACHE_TTL", "30s"), 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		MaxBodyBytes: atoiDefault(getenv("CACHE_MAX_BODY_BYTES", "1048576"), 1<<20),
	}
}

// RateLimitConfig controls the Redis token bucket applied to auth and
// booking routes.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads RATE_LIMIT_* environment variables.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        getenv("RATE_LIMIT_ENABLED", "true") == "true",
		Capacity:       atoiDefault(getenv("RATE_LIMIT_CAPACITY", "20"), 20),
		RefillTokens:   atoiDefault(getenv("RATE_LIMIT_REFILL_TOKENS", "10"), 10),
		RefillInterval: durDefault(getenv("RATE_LIMIT_REFILL_INTERVAL", "1s"), time.Second),
		TTL:            durDefault(getenv("RATE_LIMIT_TTL", "10m"), 10*time.Minute),
		Prefix:         getenv("RATE_LIMIT_PREFIX", "ratelimit"),
	}
}
