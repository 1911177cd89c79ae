package debug

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")

	if err := Enable(path); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	defer Disable()

	if !IsEnabled() {
		t.Error("IsEnabled() = false after Enable")
	}
	if LogPath() != path {
		t.Errorf("LogPath() = %q, want %q", LogPath(), path)
	}

	Event("session", "start", "kind=video")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "[session] start: kind=video") {
		t.Errorf("log missing event line:\n%s", data)
	}
}

func TestDisabledIsNoop(t *testing.T) {
	Disable()
	Log("dropped %d", 1) // Should not panic

	if IsEnabled() {
		t.Error("IsEnabled() = true after Disable")
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Error("transport", errors.New("connection reset"), "reading stream")

	if !strings.Contains(buf.String(), "[transport] ERROR: reading stream - connection reset") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
