// Package config provides configuration management for the sahayak CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/tidwall/sjson"
)

const appName = "sahayak"

// DefaultBaseURL is used when no server is configured.
const DefaultBaseURL = "http://localhost:8000"

// Config is the top-level configuration structure.
type Config struct {
	Server  *Server  `json:"server,omitempty"`
	Options *Options `json:"options,omitempty"`
}

// Server describes the Sahayak API the client talks to.
//
//nolint:govet // Field order is intentional for JSON readability.
type Server struct {
	BaseURL string            `json:"base_url,omitempty"`
	APIKey  string            `json:"api_key,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// Options holds optional configuration settings.
//
//nolint:govet // Field order is intentional for JSON readability.
type Options struct {
	DataDir  string `json:"data_directory,omitempty"`
	Debug    bool   `json:"debug,omitempty"`
	Timeout  string `json:"timeout,omitempty"`
	AutoSave *bool  `json:"auto_save,omitempty"`
}

// NewConfig creates an empty Config.
func NewConfig() *Config {
	return &Config{
		Server:  &Server{Headers: make(map[string]string)},
		Options: &Options{},
	}
}

// BaseURL returns the configured API root.
func (c *Config) BaseURL() string {
	if c.Server != nil && c.Server.BaseURL != "" {
		return c.Server.BaseURL
	}
	return DefaultBaseURL
}

// APIKey returns the resolved API key, or "".
func (c *Config) APIKey() string {
	if c.Server == nil {
		return ""
	}
	return c.Server.APIKey
}

// Headers returns extra request headers.
func (c *Config) Headers() map[string]string {
	if c.Server == nil {
		return nil
	}
	return c.Server.Headers
}

// DataDir returns the data directory path from configuration.
func (c *Config) DataDir() string {
	if c.Options != nil && c.Options.DataDir != "" {
		return c.Options.DataDir
	}
	return filepath.Join(xdg.DataHome, appName)
}

// DebugLogPath returns where the debug log is written.
func (c *Config) DebugLogPath() string {
	return filepath.Join(c.DataDir(), "debug.log")
}

// Timeout returns the per-generation timeout. Zero means none.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Options == nil || c.Options.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Options.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parsing options.timeout %q: %w", c.Options.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("options.timeout must not be negative, got %s", d)
	}
	return d, nil
}

// AutoSave reports whether successful results are recorded in local
// history. Defaults to true.
func (c *Config) AutoSave() bool {
	if c.Options == nil || c.Options.AutoSave == nil {
		return true
	}
	return *c.Options.AutoSave
}

// GlobalConfigPath returns the path to the global configuration file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appName, configFileName)
}

// SetConfigField updates a single field in the file at path using JSON path
// notation. Only the named field is touched; hand-written formatting and
// unknown fields survive.
func SetConfigField(path, key string, value any) error {
	//nolint:gosec // G304: path is the trusted global config location.
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading config file: %w", err)
		}
		data = []byte("{}")
	}

	newData, err := sjson.Set(string(data), key, value)
	if err != nil {
		return fmt.Errorf("setting config field %q: %w", key, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	//nolint:gosec // 0o600 is intentionally restrictive for security.
	if err := os.WriteFile(path, []byte(newData), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
