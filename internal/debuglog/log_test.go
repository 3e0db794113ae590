package debuglog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		" warn ":  LevelWarn,
		"WARNING": LevelWarn,
		"error":   LevelError,
		"off":     LevelOff,
		"bogus":   LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	if err := Setup(LevelInfo, path); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer func() {
		Close()
		Setup(LevelOff)
	}()

	Infof("hello %s", "world")
	Debugf("should be filtered")

	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected log to contain message, got %q", out)
	}
	if strings.Contains(out, "filtered") {
		t.Errorf("debug message should not pass INFO level, got %q", out)
	}
}

func TestOffDisablesLogging(t *testing.T) {
	if err := Setup(LevelOff); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if GetLevel() != LevelOff {
		t.Errorf("expected LevelOff, got %v", GetLevel())
	}
	// Must not panic with no logger configured.
	Errorf("nobody listens")
}
