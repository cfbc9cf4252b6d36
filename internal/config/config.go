package config

import (
	"os"
	"time"
)

type Config struct {
	Server struct {
		Host         string
		Port         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
		IdleTimeout  time.Duration
	}
	Redis struct {
		URL string
	}
	HubAPI struct {
		URL string
	}
	Session struct {
		// Backend selects the session store: "redis" or "memory".
		Backend      string
		CookieSecret string
		TTL          time.Duration
	}
	// TimeZone is the wall-clock zone used when rendering and parsing
	// datetime-local form values. Both directions of the conversion must use
	// the same zone or unedited events drift on resubmit.
	TimeZone string
	LogLevel string
}

func Load() *Config {
	cfg := &Config{}

	// Server configuration
	cfg.Server.Host = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.Server.Port = getEnv("SERVER_PORT", "3000")
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", "10s")
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", "10s")
	cfg.Server.IdleTimeout = getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s")

	// Redis configuration (session store)
	cfg.Redis.URL = getEnv("REDIS_URL", "redis://localhost:6379")

	// Hub API configuration
	cfg.HubAPI.URL = getEnv("HUB_API_URL", "http://localhost:8000")

	// Session configuration
	cfg.Session.Backend = getEnv("SESSION_BACKEND", "memory")
	cfg.Session.CookieSecret = getEnv("SESSION_COOKIE_SECRET", "dev-only-secret")
	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", "24h")

	// Presentation
	cfg.TimeZone = getEnv("DISPLAY_TIMEZONE", "America/Los_Angeles")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	val := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0)
	}
	return duration
}
