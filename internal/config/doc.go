// Package config loads settings for the gemini-files CLI.
//
// Sources, later ones override earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected with -c / --config. The format is
//     picked by extension; .yaml and .yml are YAML, anything else JSON.
//  3. Environment variables, after a .env file in the working directory is
//     loaded into the process environment.
//  4. Command-line flags, applied by the cli package.
//
// File schema (JSON shown, YAML uses the same keys):
//
//	{
//	  "api_key": "...",
//	  "base_url": "https://generativelanguage.googleapis.com/",
//	  "timeout": "2m",
//	  "registry_path": "gemini-files.db",
//	  "concurrency": 4,
//	  "rate_limit": 0,
//	  "log_level": "info",
//	  "log_format": "text",
//	  "metrics_file": "",
//	  "s3": {"region": "eu-central-1", "endpoint": "", "access_key": "", "secret_key": ""}
//	}
//
// Durations accept "30s" style strings or integer nanoseconds.
//
// Environment variables: GEMINI_API_KEY, GEMINI_BASE_URL, GEMINI_TIMEOUT,
// GEMINI_REGISTRY, GEMINI_LOG_LEVEL, GEMINI_S3_ENDPOINT.
//
// A config file that cannot be read or parsed makes LoadConfig panic.
package config
