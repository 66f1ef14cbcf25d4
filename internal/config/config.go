package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every environment-provided knob. Each field has a default
// so the service starts with zero configuration in development.
type Config struct {
	Port     string
	LogLevel string

	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string

	PoolMaxConns    int32
	PoolIdleTimeout time.Duration

	DefaultCurrency  string
	CORSAllowOrigins []string

	// AMQPURL enables the payment.recorded publisher when non-empty.
	AMQPURL string

	RunMigrations bool
}

func Load() Config {
	return Config{
		Port:     getenv("PORT", "8000"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		PGHost:     getenv("PGHOST", "db"),
		PGPort:     getInt("PGPORT", 5432),
		PGUser:     getenv("PGUSER", "paylanka"),
		PGPassword: getenv("PGPASSWORD", "paylanka"),
		PGDatabase: getenv("PGDATABASE", "paylanka"),

		PoolMaxConns:    int32(getInt("POOL_MAX_CONNS", 10)),
		PoolIdleTimeout: getDuration("POOL_IDLE_TIMEOUT", 30*time.Second),

		DefaultCurrency:  getenv("DEFAULT_CURRENCY", "LKR"),
		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "*")),

		AMQPURL: os.Getenv("AMQP_URL"),

		RunMigrations: getBool("RUN_MIGRATIONS", true),
	}
}

// DatabaseDSN renders the connection string used by both the pgx pool and
// the migrate path.
func (c Config) DatabaseDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
