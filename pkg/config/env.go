package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cowt/har-viewer/pkg/filter"
)

// Environment variable names
const (
	EnvConfig    = "HARVIEW_CONFIG"
	EnvLogLevel  = "HARVIEW_LOG_LEVEL"
	EnvLogFormat = "HARVIEW_LOG_FORMAT"
	EnvLogFile   = "HARVIEW_LOG_FILE"
	EnvJSON      = "HARVIEW_JSON"
	EnvDomains   = "HARVIEW_DOMAINS"
)

// LoadDotEnv sets variables from a .env file without overriding variables
// already present in the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadEnv applies the HARVIEW_* variables that are set.
func LoadEnv(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = make(map[string]string)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		cfg.Sources["logLevel"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		cfg.Sources["logFormat"] = SourceEnv
	}

	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
		cfg.Sources["logFile"] = SourceEnv
	}

	if v := os.Getenv(EnvJSON); v != "" {
		v = strings.ToLower(v)
		cfg.JSON = v == "true" || v == "1" || v == "yes"
		cfg.Sources["json"] = SourceEnv
	}

	if v := os.Getenv(EnvDomains); v != "" {
		cfg.Filter.Domains = filter.ParseDomains(v)
		cfg.Sources["filter.domains"] = SourceEnv
	}
}
