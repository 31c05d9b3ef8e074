// Package config loads runtime configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every runtime setting the server needs. All values come from
// the environment; missing required variables abort startup.
type Config struct {
	Env  string
	Port string

	DBUser string
	DBPass string
	DBHost string
	DBPort string
	DBName string

	// Initial database connect policy. The server retries the first
	// connection this many times, sleeping Backoff between attempts.
	DBConnectAttempts int
	DBConnectBackoff  time.Duration

	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
}

// Load reads the configuration. Required variables are enforced by must();
// the connect-retry policy has defaults matching the historical behavior
// (3 attempts, 1 second apart).
func Load() Config {
	return Config{
		Env:               getenv("APP_ENV", "dev"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		DBConnectAttempts: atoiDefault(os.Getenv("DB_CONNECT_ATTEMPTS"), 3),
		DBConnectBackoff:  durDefault(os.Getenv("DB_CONNECT_BACKOFF"), time.Second),
		JWTSecret:         must("JWT_SECRET"),
		AccessTTLMin:      mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays:    mustInt("REFRESH_TOKEN_TTL_DAYS"),
	}
}

func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func durDefault(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
