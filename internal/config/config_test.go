package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeJSON(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadFrom(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvAPIKey, "")

	t.Run("missing files use defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadFrom(filepath.Join(dir, "none.json"), "")
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.BaseURL() != DefaultBaseURL {
			t.Errorf("BaseURL() = %q", cfg.BaseURL())
		}
		if !cfg.AutoSave() {
			t.Error("AutoSave() default should be true")
		}
		if cfg.DataDir() == "" {
			t.Error("DataDir() is empty")
		}
	})

	t.Run("project overrides global", func(t *testing.T) {
		dir := t.TempDir()
		global := filepath.Join(dir, "global.json")
		project := filepath.Join(dir, "project", configFileName)
		writeJSON(t, global, `{
			"server": {"base_url": "https://global.example/", "api_key": "g", "headers": {"X-A": "1"}},
			"options": {"timeout": "2m", "data_directory": "/tmp/global"}
		}`)
		writeJSON(t, project, `{
			"server": {"base_url": "https://project.example", "headers": {"X-B": "2"}},
			"options": {"auto_save": false, "debug": true}
		}`)

		cfg, err := LoadFrom(global, project)
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.BaseURL() != "https://project.example" {
			t.Errorf("BaseURL() = %q", cfg.BaseURL())
		}
		if cfg.APIKey() != "g" {
			t.Errorf("APIKey() = %q, want global key kept", cfg.APIKey())
		}
		if cfg.Headers()["X-A"] != "1" || cfg.Headers()["X-B"] != "2" {
			t.Errorf("Headers() = %v", cfg.Headers())
		}
		if cfg.AutoSave() {
			t.Error("AutoSave() = true, want project false")
		}
		if !cfg.Options.Debug {
			t.Error("Debug not merged")
		}
		if d, _ := cfg.Timeout(); d != 2*time.Minute {
			t.Errorf("Timeout() = %s", d)
		}
		if cfg.DataDir() != "/tmp/global" {
			t.Errorf("DataDir() = %q", cfg.DataDir())
		}
	})

	t.Run("env overrides files", func(t *testing.T) {
		dir := t.TempDir()
		global := filepath.Join(dir, "global.json")
		writeJSON(t, global, `{"server": {"base_url": "https://file.example", "api_key": "file"}}`)
		t.Setenv(EnvBaseURL, "https://env.example")
		t.Setenv(EnvAPIKey, "env-key")

		cfg, err := LoadFrom(global, "")
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.BaseURL() != "https://env.example" || cfg.APIKey() != "env-key" {
			t.Errorf("BaseURL()=%q APIKey()=%q", cfg.BaseURL(), cfg.APIKey())
		}
	})

	t.Run("resolves variables", func(t *testing.T) {
		dir := t.TempDir()
		global := filepath.Join(dir, "global.json")
		writeJSON(t, global, `{"server": {"api_key": "$SAHAYAK_TEST_KEY", "headers": {"X-School": "${SAHAYAK_TEST_SCHOOL}"}}}`)
		t.Setenv("SAHAYAK_TEST_KEY", "secret")
		t.Setenv("SAHAYAK_TEST_SCHOOL", "s-42")

		cfg, err := LoadFrom(global, "")
		if err != nil {
			t.Fatalf("LoadFrom() error = %v", err)
		}
		if cfg.APIKey() != "secret" || cfg.Headers()["X-School"] != "s-42" {
			t.Errorf("APIKey()=%q headers=%v", cfg.APIKey(), cfg.Headers())
		}
	})

	t.Run("unset variable is an error", func(t *testing.T) {
		dir := t.TempDir()
		global := filepath.Join(dir, "global.json")
		writeJSON(t, global, `{"server": {"api_key": "$SAHAYAK_TEST_DOES_NOT_EXIST"}}`)

		if _, err := LoadFrom(global, ""); !errors.Is(err, ErrUnresolved) {
			t.Errorf("LoadFrom() error = %v, want ErrUnresolved", err)
		}
	})

	t.Run("bad timeout", func(t *testing.T) {
		dir := t.TempDir()
		global := filepath.Join(dir, "global.json")
		writeJSON(t, global, `{"options": {"timeout": "soon"}}`)

		if _, err := LoadFrom(global, ""); err == nil {
			t.Error("LoadFrom() accepted invalid timeout")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		dir := t.TempDir()
		global := filepath.Join(dir, "global.json")
		writeJSON(t, global, `{"server": `)

		if _, err := LoadFrom(global, ""); err == nil {
			t.Error("LoadFrom() accepted malformed JSON")
		}
	})
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatal(err)
	}

	if got := findProjectConfig(nested); got != "" {
		t.Fatalf("findProjectConfig() = %q before any file exists", got)
	}

	hidden := filepath.Join(root, "a", "."+configFileName)
	writeJSON(t, hidden, `{}`)
	if got := findProjectConfig(nested); got != hidden {
		t.Errorf("findProjectConfig() = %q, want %q", got, hidden)
	}

	closer := filepath.Join(root, "a", "b", configFileName)
	writeJSON(t, closer, `{}`)
	if got := findProjectConfig(nested); got != closer {
		t.Errorf("findProjectConfig() = %q, want %q", got, closer)
	}
}

func TestResolver(t *testing.T) {
	r := &Resolver{lookup: func(name string) (string, bool) {
		switch name {
		case "HOST":
			return "example.com", true
		case "EMPTY":
			return "", true
		}
		return "", false
	}}

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "plain", false},
		{"$HOST", "example.com", false},
		{"https://${HOST}/api", "https://example.com/api", false},
		{"x$EMPTY", "x", false},
		{"$MISSING", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := r.Resolve(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetConfigField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", configFileName)

	if err := SetConfigField(path, "server.base_url", "https://a.example"); err != nil {
		t.Fatalf("SetConfigField() error = %v", err)
	}
	if err := SetConfigField(path, "options.debug", true); err != nil {
		t.Fatalf("SetConfigField() error = %v", err)
	}
	if err := SetConfigField(path, "server.headers.X-School", "s1"); err != nil {
		t.Fatalf("SetConfigField() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not JSON: %v\n%s", err, data)
	}
	if cfg.Server.BaseURL != "https://a.example" || !cfg.Options.Debug || cfg.Server.Headers["X-School"] != "s1" {
		t.Errorf("config = %s", data)
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{"server.base_url", "https://x", "https://x", false},
		{"options.debug", "true", true, false},
		{"options.auto_save", "no", nil, true},
		{"options.timeout", "90s", "90s", false},
		{"options.timeout", "later", nil, true},
		{"server.headers.X-Trace", "on", "on", false},
		{"server.headers.", "on", nil, true},
		{"models.large", "x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.raw, func(t *testing.T) {
			got, err := ParseField(tt.key, tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseField() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseField() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSaveToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), configFileName)
	cfg := NewConfig()
	cfg.Server.BaseURL = "https://school.example"
	cfg.Server.APIKey = "$SAHAYAK_TEST_SAVE_KEY"

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvBaseURL, "")
	if _, err := LoadFrom(path, ""); !errors.Is(err, ErrUnresolved) {
		t.Errorf("LoadFrom() error = %v, want template kept and unresolved", err)
	}

	t.Setenv("SAHAYAK_TEST_SAVE_KEY", "from-env")
	loaded, err := LoadFrom(path, "")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if loaded.BaseURL() != "https://school.example" || loaded.APIKey() != "from-env" {
		t.Errorf("loaded = %+v", loaded.Server)
	}
}
