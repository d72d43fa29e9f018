package config

import (
	"fmt"
	"strings"

	"github.com/cowt/har-viewer/pkg/filter"
	"github.com/cowt/har-viewer/pkg/logging"
)

// Config is the merged harview configuration.
type Config struct {
	// Logging settings
	LogLevel  string `yaml:"logLevel" json:"logLevel"`
	LogFormat string `yaml:"logFormat" json:"logFormat"`
	LogFile   string `yaml:"logFile,omitempty" json:"logFile,omitempty"`

	// Output settings
	JSON bool `yaml:"json" json:"json"`

	// Filter is the default filter profile. Flags given on the command line
	// replace individual fields.
	Filter filter.Criteria `yaml:"filter,omitempty" json:"filter,omitempty"`

	// Sources tracks where each value came from.
	Sources map[string]string `yaml:"-" json:"-"`

	// SetFields records which keys a file set explicitly, so a false
	// boolean in a file can override a true one from an earlier source.
	SetFields map[string]bool `yaml:"-" json:"-"`
}

// Value sources.
const (
	SourceDefault = "default"
	SourceGlobal  = "global"
	SourceLocal   = "local"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Defaults.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// NewDefault returns a config holding the defaults.
func NewDefault() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Sources: map[string]string{
			"logLevel":  SourceDefault,
			"logFormat": SourceDefault,
			"json":      SourceDefault,
		},
	}
}

// Validate checks the logging settings and the filter profile.
func (c *Config) Validate() error {
	if c.LogLevel != "" && !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("logLevel %q is not one of debug, info, warn, error", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("logFormat %q is not one of text, json", c.LogFormat)
	}
	if err := c.Filter.Validate(); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	return nil
}

// Logging returns the logging configuration described by c.
func (c *Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(c.LogLevel)
	cfg.Format = logging.ParseFormat(c.LogFormat)
	cfg.File = c.LogFile
	return cfg
}
