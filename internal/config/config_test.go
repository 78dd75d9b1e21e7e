package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"api_key": "test-key",
		"mode": "crisis",
		"port": 9000,
		"call_timeout": 30,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "crisis", cfg.Mode)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 30, cfg.CallTimeout)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestValidate_UnknownMode(t *testing.T) {
	cfg := &Config{Mode: "panic"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "mode")
}

func TestValidate_NegativeValues(t *testing.T) {
	cfg := &Config{CallTimeout: -1}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "call_timeout")

	cfg = &Config{Port: -1}
	err = cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_MissingContentFile(t *testing.T) {
	cfg := &Config{ContentFile: "/nonexistent/content.txt"}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "content file not found")
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{
		Mode:        "standard",
		Port:        8787,
		CallTimeout: 60,
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		APIKey:      "default-key",
		DBPath:      "/tmp/vibecheck.db",
		Mode:        "crisis",
		Port:        9000,
		CallTimeout: 30,
	}

	partial := Config{
		APIKey: "custom-key",
	}

	merged := partial.MergeWithDefaults(defaults)

	// Custom values should be preserved
	assert.Equal(t, "custom-key", merged.APIKey)

	// Default values should fill in empty fields
	assert.Equal(t, "/tmp/vibecheck.db", merged.DBPath)
	assert.Equal(t, "crisis", merged.Mode)
	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, 30, merged.CallTimeout)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{APIKey: "test-key"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "test-key", merged.APIKey)
	// Built-in fallbacks apply when neither side sets a value
	assert.Equal(t, DefaultMode, merged.Mode)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, DefaultCallTimeout, merged.CallTimeout)
}
