package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Settings holds runtime options read from the environment.
type Settings struct {
	LogLevel string // debug, info, warn, error
	Workers  int    // 0 = one per CPU
	Output   string // text or json
	NoColor  bool   // NO_COLOR set to any non-empty value
}

// LoadSettings reads settings from the environment, after loading a .env
// file from the working directory if one exists.
func LoadSettings() Settings {
	_ = godotenv.Load()

	output := strings.ToLower(getEnv("COHERENCE_OUTPUT", "text"))
	if output != "json" {
		output = "text"
	}

	return Settings{
		LogLevel: getEnv("COHERENCE_LOG_LEVEL", "info"),
		Workers:  getEnvAsInt("COHERENCE_WORKERS", 0),
		Output:   output,
		NoColor:  os.Getenv("NO_COLOR") != "",
	}
}

// SlogLevel maps LogLevel to a slog level. Unknown values default to info.
func (s Settings) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
