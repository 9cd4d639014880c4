package config

import (
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port string

	// DBURL, DBUser and DBPassword feed db.OpenFromEnv. When DBURL is empty the
	// local default DSN is used instead (see db.DefaultDSN).
	DBURL      string
	DBUser     string
	DBPassword string

	// DBStrictEnv forces the environment-only connect path: a missing DB_URL,
	// DB_USER or DB_PASSWORD is then an error instead of a fallback to the default.
	DBStrictEnv bool

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// RateLimitRPS and RateLimitBurst size the per-IP token bucket on the API.
	RateLimitRPS   int
	RateLimitBurst int
	// TrustProxy keys the rate limiter on X-Forwarded-For/X-Real-IP. Enable it
	// only behind a proxy that sets those headers.
	TrustProxy bool

	// MaxBodyBytes caps request bodies on write routes (default 1 MiB).
	MaxBodyBytes int
}

func Load() Config {
	return Config{
		Port: getEnv("PORT", "8080"),

		DBURL:       os.Getenv("DB_URL"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBStrictEnv: getEnvBool("DB_STRICT_ENV", false),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),
		TrustProxy:     getEnvBool("TRUST_PROXY", false),

		MaxBodyBytes: getEnvInt("MAX_BODY_BYTES", 1<<20),
	}
}

// UseEnvConnection reports whether the database should be opened from
// DB_URL/DB_USER/DB_PASSWORD rather than the hardcoded local default.
func (c Config) UseEnvConnection() bool {
	return c.DBStrictEnv || c.DBURL != ""
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
