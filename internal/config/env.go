package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads envFile into the process environment, without overriding
// variables already set, then overlays cfg. A missing envFile is ignored.
func parseEnv(cfg *Config, envFile string) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			panic(fmt.Errorf("load %s: %w", envFile, err))
		}
	}

	if v, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := os.LookupEnv("GEMINI_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := os.LookupEnv("GEMINI_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("GEMINI_TIMEOUT: %w", err))
		}
		cfg.Timeout = d
	}
	if v, ok := os.LookupEnv("GEMINI_REGISTRY"); ok {
		cfg.RegistryPath = v
	}
	if v, ok := os.LookupEnv("GEMINI_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv("GEMINI_S3_ENDPOINT"); ok {
		cfg.S3.Endpoint = v
	}
}
