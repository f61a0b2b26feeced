package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration sourced from the environment.
type Server struct {
	Addr string

	// SessionSigningKey signs the pde_session cookie JWT. The process
	// refuses to start without it: authentication must fail closed.
	SessionSigningKey string

	// AdminNotifyLevel is the minimum role level that receives
	// administrator notifications on status transitions.
	AdminNotifyLevel int

	PostgresDSN string
	Redis       RedisConfig

	// SMTPAddr is the host:port of the outbound mail relay. Empty means
	// emails are logged instead of sent.
	SMTPAddr string
	SMTPFrom string
}

// RedisConfig holds connection settings for the progress counter cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProgressCacheTTL bounds staleness of cached onboarding progress counters.
var ProgressCacheTTL = 5 * time.Minute

// ErrMissingSigningKey is returned by FromEnv when the session signing key
// is absent. Callers must treat this as fatal.
var ErrMissingSigningKey = errors.New("SESSION_SIGNING_KEY is not configured")

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	addr := os.Getenv("PDE_ADMIN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	signingKey := os.Getenv("SESSION_SIGNING_KEY")
	if signingKey == "" {
		return Server{}, ErrMissingSigningKey
	}

	adminLevel := 4
	if raw := os.Getenv("ADMIN_NOTIFY_LEVEL"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Server{}, errors.New("ADMIN_NOTIFY_LEVEL must be a positive integer")
		}
		adminLevel = parsed
	}

	smtpFrom := os.Getenv("SMTP_FROM")
	if smtpFrom == "" {
		smtpFrom = "no-reply@puntoentrega.cr"
	}

	return Server{
		Addr:              addr,
		SessionSigningKey: signingKey,
		AdminNotifyLevel:  adminLevel,
		PostgresDSN:       os.Getenv("POSTGRES_DSN"),
		SMTPAddr:          os.Getenv("SMTP_ADDR"),
		SMTPFrom:          smtpFrom,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
	}, nil
}
