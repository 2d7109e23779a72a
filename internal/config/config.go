// Package config loads environment-driven defaults for papersynth.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the settings that come from the environment rather than flags.
type Config struct {
	Log         LogConfig
	Seed        int64
	JPEGQuality int
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string
	Format string
}

const (
	defaultLogLevel    = "info"
	defaultLogFormat   = "console"
	defaultJPEGQuality = 95
)

// Load reads an optional .env file in the working directory and then the
// PAPERSYNTH_* environment variables. Unparseable values fall back to their
// defaults.
func Load() *Config {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	quality := getEnvInt("PAPERSYNTH_JPEG_QUALITY", defaultJPEGQuality)
	if quality < 1 || quality > 100 {
		quality = defaultJPEGQuality
	}

	return &Config{
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("PAPERSYNTH_LOG_LEVEL", defaultLogLevel)),
			Format: strings.ToLower(getEnv("PAPERSYNTH_LOG_FORMAT", defaultLogFormat)),
		},
		Seed:        getEnvInt64("PAPERSYNTH_SEED", 0),
		JPEGQuality: quality,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
