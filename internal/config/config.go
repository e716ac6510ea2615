package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

type S3 struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the CLI.
type Config struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	RegistryPath string
	Concurrency  int
	// RateLimit is requests per second, 0 disables limiting.
	RateLimit float64
	LogLevel  string
	LogFormat string
	// MetricsFile, when set, receives transport metrics in the Prometheus
	// text format after each command.
	MetricsFile string
	S3          S3
}

func (c *Config) LoadDefaults() {
	c.BaseURL = DefaultBaseURL
	c.Timeout = 2 * time.Minute
	c.RegistryPath = "gemini-files.db"
	c.Concurrency = 4
	c.RateLimit = 0
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig applies defaults, the config file named in args, then the
// environment.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg, args)
	parseEnv(cfg, ".env")
	return cfg
}

// Validate reports settings that cannot work. A missing API key is not an
// error here; the CLI prompts for it.
func (c *Config) Validate() error {
	var errs []error

	if u, err := url.Parse(c.BaseURL); err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("base url %q is not an absolute URL", c.BaseURL))
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}
