package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr string

	// APIKey is the shared secret required on every route except /health
	// and /metrics. Empty disables authentication.
	APIKey string

	// DatabaseURL selects the PostgreSQL stores; empty falls back to the
	// in-memory stores.
	DatabaseURL string

	// RedisURL enables the card projection cache; empty disables it.
	RedisURL string

	// RejectFutureDates controls the date-sanity validation check.
	RejectFutureDates bool

	// RequestTimeout bounds each request; no operation suspends beyond the
	// underlying storage call.
	RequestTimeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("VAXCARD_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Future application dates are rejected unless explicitly disabled.
	rejectFuture := os.Getenv("REJECT_FUTURE_DATES") != "false"

	return Server{
		Addr:              addr,
		APIKey:            os.Getenv("API_KEY"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		RejectFutureDates: rejectFuture,
		RequestTimeout:    30 * time.Second,
	}
}
