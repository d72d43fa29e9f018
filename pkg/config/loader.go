package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound     = errors.New("configuration file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
)

// GlobalConfigDir is the directory under the user config dir.
const GlobalConfigDir = "harview"

// LocalConfigFileNames are searched in the working directory, in order.
var LocalConfigFileNames = []string{".harviewrc.yaml", ".harviewrc.yml"}

// GlobalConfigFileNames are searched in the global config dir, in order.
var GlobalConfigFileNames = []string{"config.yaml", "config.yml"}

// ConfigError reports a file that could not be decoded.
type ConfigError struct {
	Path    string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return e.Path + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FindLocalConfig returns the first local config file in dir, or "".
func FindLocalConfig(dir string) string {
	for _, name := range LocalConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindGlobalConfig returns the global config file, or "" when there is none.
func FindGlobalConfig() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range GlobalConfigFileNames {
		path := filepath.Join(configDir, GlobalConfigDir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile reads a config file. The format is JSON for .json files and YAML
// otherwise.
func LoadFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parse(path, data, json.Unmarshal, ErrInvalidJSON)
	}
	return parse(path, data, yaml.Unmarshal, ErrInvalidYAML)
}

func parse(path string, data []byte, unmarshal func([]byte, any) error, syntaxErr error) (*Config, error) {
	cfg := &Config{Sources: make(map[string]string), SetFields: make(map[string]bool)}
	if len(strings.TrimSpace(string(data))) == 0 {
		return cfg, nil
	}

	if err := unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Path: path, Message: syntaxErr.Error() + ": " + err.Error(), Err: syntaxErr}
	}

	var keys map[string]any
	if err := unmarshal(data, &keys); err == nil {
		for k := range keys {
			cfg.SetFields[k] = true
		}
	}
	return cfg, nil
}

// LoadOptions control LoadAll.
type LoadOptions struct {
	// ConfigFile is an explicit config file. It must exist.
	ConfigFile string
	// Dir is searched for a local config file and a .env file. Defaults to
	// the working directory.
	Dir string
	// SkipGlobal disables the global config file.
	SkipGlobal bool
}

// LoadAll merges every source except flags.
// Precedence: env > explicit file > local file > global file > defaults.
func LoadAll(opts LoadOptions) (*Config, error) {
	cfg := NewDefault()

	dir := opts.Dir
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			dir = wd
		}
	}

	if !opts.SkipGlobal {
		if path := FindGlobalConfig(); path != "" {
			global, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			Merge(cfg, global, SourceGlobal)
		}
	}

	if path := FindLocalConfig(dir); path != "" {
		local, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, local, SourceLocal)
	}

	if err := LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		return nil, err
	}

	explicit := opts.ConfigFile
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}
	if explicit != "" {
		file, err := LoadFile(explicit)
		if err != nil {
			return nil, err
		}
		Merge(cfg, file, SourceFile)
		cfg.Sources["configFile"] = explicit
	}

	LoadEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
