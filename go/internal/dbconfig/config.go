package dbconfig

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the results database connection settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// NewConfigFromEnv reads HISTORY_DB_* environment variables (with defaults).
func NewConfigFromEnv() Config {
	port, err := strconv.Atoi(getEnv("HISTORY_DB_PORT", "5432"))
	if err != nil {
		port = 5432
	}

	return Config{
		Host:     getEnv("HISTORY_DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("HISTORY_DB_USER", "postgres"),
		Password: getEnv("HISTORY_DB_PASSWORD", "postgres"),
		Database: getEnv("HISTORY_DB_NAME", "brickgame"),
		SSLMode:  getEnv("HISTORY_DB_SSLMODE", "disable"),
	}
}

// Configured reports whether the environment names a results database at all.
func Configured() bool {
	return os.Getenv("HISTORY_DB_HOST") != ""
}

// DSN returns the Postgres connection URL.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
