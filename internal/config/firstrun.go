package config

import (
	"os"
)

// IsFirstRun reports whether no configuration file exists yet, globally or
// for the current project.
func IsFirstRun() bool {
	if _, err := os.Stat(GlobalConfigPath()); err == nil {
		return false
	}
	cwd, err := os.Getwd()
	if err != nil {
		return true
	}
	return findProjectConfig(cwd) == ""
}

// NeedsSetup reports whether cfg still points at the built-in default
// server without credentials.
func NeedsSetup(cfg *Config) bool {
	return cfg.BaseURL() == DefaultBaseURL && cfg.APIKey() == ""
}
