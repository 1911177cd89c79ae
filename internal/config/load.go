package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const configFileName = "sahayak.json"

// Environment overrides.
const (
	EnvBaseURL = "SAHAYAK_BASE_URL"
	EnvAPIKey  = "SAHAYAK_API_KEY"
)

// Load finds and loads configuration from standard locations. A .env file
// in the working directory is loaded first, then the global config is
// merged with the nearest project config (project takes precedence).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	return LoadFrom(GlobalConfigPath(), findProjectConfig(cwd))
}

// LoadFrom loads the global file and an optional project file. Missing
// files are not an error.
func LoadFrom(globalPath, projectPath string) (*Config, error) {
	cfg := NewConfig()
	if err := loadFile(globalPath, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	if projectPath != "" {
		projectCfg := NewConfig()
		if err := loadFile(projectPath, projectCfg); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
		mergeConfig(cfg, projectCfg)
	}

	applyEnv(cfg)
	if err := resolveValues(cfg, NewResolver()); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	//nolint:gosec // G304: Path is from trusted config locations, not user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// findProjectConfig walks up from dir looking for sahayak.json or
// .sahayak.json.
func findProjectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	for {
		for _, name := range []string{configFileName, "." + configFileName} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func mergeConfig(dst, src *Config) {
	if src.Server != nil {
		if src.Server.BaseURL != "" {
			dst.Server.BaseURL = src.Server.BaseURL
		}
		if src.Server.APIKey != "" {
			dst.Server.APIKey = src.Server.APIKey
		}
		for k, v := range src.Server.Headers {
			dst.Server.Headers[k] = v
		}
	}

	if src.Options != nil {
		if src.Options.DataDir != "" {
			dst.Options.DataDir = src.Options.DataDir
		}
		if src.Options.Debug {
			dst.Options.Debug = true
		}
		if src.Options.Timeout != "" {
			dst.Options.Timeout = src.Options.Timeout
		}
		if src.Options.AutoSave != nil {
			dst.Options.AutoSave = src.Options.AutoSave
		}
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv(EnvAPIKey); v != "" {
		cfg.Server.APIKey = v
	}
}

func resolveValues(cfg *Config, resolver *Resolver) error {
	var err error
	if cfg.Server.BaseURL, err = resolver.Resolve(cfg.Server.BaseURL); err != nil {
		return fmt.Errorf("resolving server.base_url: %w", err)
	}
	if cfg.Server.APIKey, err = resolver.Resolve(cfg.Server.APIKey); err != nil {
		return fmt.Errorf("resolving server.api_key: %w", err)
	}
	for k, v := range cfg.Server.Headers {
		if cfg.Server.Headers[k], err = resolver.Resolve(v); err != nil {
			return fmt.Errorf("resolving server.headers.%s: %w", k, err)
		}
	}
	if cfg.Options.DataDir, err = resolver.Resolve(cfg.Options.DataDir); err != nil {
		return fmt.Errorf("resolving options.data_directory: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = DefaultBaseURL
	}
	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")
	if cfg.Options.DataDir == "" {
		cfg.Options.DataDir = cfg.DataDir()
	}
}
