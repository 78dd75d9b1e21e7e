// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	ContentFile string `json:"content_file,omitempty"` // Path to a file holding the content to review
	DBPath      string `json:"db_path,omitempty"`      // Path to the credential database

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	Mode        string `json:"mode,omitempty"`         // Evaluation mode: standard or crisis
	Port        int    `json:"port,omitempty"`         // HTTP API port
	CallTimeout int    `json:"call_timeout,omitempty"` // Per-LLM-call timeout in seconds (0 = disabled)
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed output
}

// Default values applied by MergeWithDefaults when neither the config file
// nor the flags set them.
const (
	DefaultPort        = 8787
	DefaultMode        = "standard"
	DefaultCallTimeout = 60
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Mode != "" && c.Mode != "standard" && c.Mode != "crisis" {
		return fmt.Errorf("config error: 'mode' must be \"standard\" or \"crisis\"")
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.CallTimeout < 0 {
		return fmt.Errorf("config error: 'call_timeout' must be non-negative")
	}

	// Validate file paths exist (if specified)
	if c.ContentFile != "" {
		if _, err := os.Stat(c.ContentFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: content file not found: %s", c.ContentFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.ContentFile == "" {
		result.ContentFile = defaults.ContentFile
	}
	if result.DBPath == "" {
		result.DBPath = defaults.DBPath
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Mode == "" {
		result.Mode = defaults.Mode
	}
	if result.Mode == "" {
		result.Mode = DefaultMode
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Port == 0 {
		result.Port = DefaultPort
	}
	if result.CallTimeout == 0 {
		if defaults.CallTimeout > 0 {
			result.CallTimeout = defaults.CallTimeout
		} else {
			result.CallTimeout = DefaultCallTimeout
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
