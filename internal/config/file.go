package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gemini-go/internal/flagx"
	"github.com/dmitrijs2005/gemini-go/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape. Pointer fields distinguish "absent" from
// zero so that a partial file keeps the defaults.
type FileConfig struct {
	APIKey       *string         `json:"api_key" yaml:"api_key"`
	BaseURL      *string         `json:"base_url" yaml:"base_url"`
	Timeout      *timex.Duration `json:"timeout" yaml:"timeout"`
	RegistryPath *string         `json:"registry_path" yaml:"registry_path"`
	Concurrency  *int            `json:"concurrency" yaml:"concurrency"`
	RateLimit    *float64        `json:"rate_limit" yaml:"rate_limit"`
	LogLevel     *string         `json:"log_level" yaml:"log_level"`
	LogFormat    *string         `json:"log_format" yaml:"log_format"`
	MetricsFile  *string         `json:"metrics_file" yaml:"metrics_file"`
	S3           *FileS3         `json:"s3" yaml:"s3"`
}

type FileS3 struct {
	Region    string `json:"region" yaml:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	AccessKey string `json:"access_key" yaml:"access_key"`
	SecretKey string `json:"secret_key" yaml:"secret_key"`
}

// parseFile overlays cfg with the file named by -c/--config in args. Panics
// on read or decode errors.
func parseFile(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	setIf(&cfg.APIKey, fc.APIKey)
	setIf(&cfg.BaseURL, fc.BaseURL)
	setIf(&cfg.RegistryPath, fc.RegistryPath)
	setIf(&cfg.Concurrency, fc.Concurrency)
	setIf(&cfg.RateLimit, fc.RateLimit)
	setIf(&cfg.LogLevel, fc.LogLevel)
	setIf(&cfg.LogFormat, fc.LogFormat)
	setIf(&cfg.MetricsFile, fc.MetricsFile)
	if fc.Timeout != nil {
		cfg.Timeout = fc.Timeout.Duration
	}
	if fc.S3 != nil {
		cfg.S3 = S3(*fc.S3)
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
