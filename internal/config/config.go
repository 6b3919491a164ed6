package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Token carrier modes. Exactly one is active per deployment; the session
// guard never falls back from one to the other.
const (
	CarrierHeader = "header"
	CarrierCookie = "cookie"
)

// TokenCookieName is the cookie holding the bearer token in cookie-carrier
// deployments.
const TokenCookieName = "token"

const (
	defaultAppName       = "OkapiID"
	defaultAppEnv        = "development"
	defaultPort          = "8080"
	defaultLogLevel      = "info"
	defaultTokenTTL      = time.Hour
	defaultShutdownDelay = 10 * time.Second
	defaultIdemTTL       = 24 * time.Hour

	// insecureJWTSecret matches the upstream fallback. Deployments that
	// never set JWT_SECRET sign tokens with a publicly known key; Load
	// flags this so main can warn loudly.
	insecureJWTSecret = "defaultSecret"

	tokenTTLSecondsEnvVar  = "TOKEN_TTL_SECONDS"
	tokenTTLDurEnvVar      = "TOKEN_TTL"
	shutdownSecondsEnvVar  = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurationEnvVar = "SHUTDOWN_TIMEOUT"
	idemTTLSecondsEnvVar   = "IDEMPOTENCY_TTL_SECONDS"
	idemTTLDurEnvVar       = "IDEMPOTENCY_TTL"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName           string
	AppEnv            string
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	InsecureJWTSecret bool
	TokenTTL          time.Duration
	TokenCarrier      string
	ShutdownPeriod    time.Duration
	IdempotencyTTL    time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
// DATABASE_URL and REDIS_URL are required outside development environments;
// in development the service falls back to in-memory storage and skips
// redis-backed middleware.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TokenTTL:       defaultTokenTTL,
		TokenCarrier:   strings.ToLower(getEnv("TOKEN_CARRIER", CarrierHeader)),
		ShutdownPeriod: defaultShutdownDelay,
		IdempotencyTTL: defaultIdemTTL,
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = insecureJWTSecret
		cfg.InsecureJWTSecret = true
	}

	if cfg.TokenCarrier != CarrierHeader && cfg.TokenCarrier != CarrierCookie {
		return Config{}, fmt.Errorf("invalid TOKEN_CARRIER %q: must be %q or %q", cfg.TokenCarrier, CarrierHeader, CarrierCookie)
	}

	var err error
	if cfg.TokenTTL, err = durationEnv(tokenTTLSecondsEnvVar, tokenTTLDurEnvVar, defaultTokenTTL); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownPeriod, err = durationEnv(shutdownSecondsEnvVar, shutdownDurationEnvVar, defaultShutdownDelay); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = durationEnv(idemTTLSecondsEnvVar, idemTTLDurEnvVar, defaultIdemTTL); err != nil {
		return Config{}, err
	}

	if !cfg.IsDev() {
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
		if cfg.RedisURL == "" {
			return Config{}, fmt.Errorf("REDIS_URL must be set when APP_ENV=%s", cfg.AppEnv)
		}
	}

	return cfg, nil
}

// IsDev reports whether the configured environment is a development one.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func durationEnv(secondsKey, durationKey string, fallback time.Duration) (time.Duration, error) {
	if v := os.Getenv(secondsKey); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", secondsKey, err)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if v := os.Getenv(durationKey); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %w", durationKey, err)
		}
		return d, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
