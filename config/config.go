/*
Package config loads server configuration from environment variables.

PURPOSE:
  One place for runtime settings. Flags override environment values, and
  every setting has a sensible default, so the binary runs with no
  configuration at all.

VARIABLES:
  PORT            HTTP server port (default: 8080)
  DB_PATH         SQLite database path (default: splitsave.db)
  LOG_LEVEL       logrus level: debug/info/warn/error (default: info)
  SWEEP_SCHEDULE  cron spec for the month-end sweep (default: 0 3 1 * *)
*/
package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
)

// Config holds the server's runtime settings.
type Config struct {
	Port          int
	DBPath        string
	LogLevel      logrus.Level
	SweepSchedule string
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	return Config{
		Port:          getEnvInt("PORT", 8080),
		DBPath:        getEnv("DB_PATH", "splitsave.db"),
		LogLevel:      parseLevel(getEnv("LOG_LEVEL", "info")),
		SweepSchedule: getEnv("SWEEP_SCHEDULE", "0 3 1 * *"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func parseLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
