package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Catalog.Region != "US" {
		t.Errorf("expected default region US, got %s", cfg.Catalog.Region)
	}
	if cfg.Shorts.PreloadRadius != 2 {
		t.Errorf("expected preload radius 2, got %d", cfg.Shorts.PreloadRadius)
	}
	if cfg.Shorts.SettleDelay != 150*time.Millisecond {
		t.Errorf("expected settle delay 150ms, got %v", cfg.Shorts.SettleDelay)
	}
	if len(cfg.Shorts.Queries) == 0 {
		t.Error("expected default shorts queries")
	}
	if cfg.Keys.Bindings.Quit != "q" {
		t.Errorf("expected quit binding q, got %s", cfg.Keys.Bindings.Quit)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Shorts.MaxItems != 40 {
		t.Errorf("expected default max items 40, got %d", cfg.Shorts.MaxItems)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[catalog]
api_key = "abc123"
region = "DE"

[shorts]
max_items = 12
settle_delay = "200ms"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.APIKey != "abc123" {
		t.Errorf("expected api key from file, got %q", cfg.Catalog.APIKey)
	}
	if cfg.Catalog.Region != "DE" {
		t.Errorf("expected region DE, got %s", cfg.Catalog.Region)
	}
	if cfg.Shorts.MaxItems != 12 {
		t.Errorf("expected max items 12, got %d", cfg.Shorts.MaxItems)
	}
	if cfg.Shorts.SettleDelay != 200*time.Millisecond {
		t.Errorf("expected settle delay 200ms, got %v", cfg.Shorts.SettleDelay)
	}
	// Defaults still apply to untouched sections.
	if cfg.Shorts.PreloadRadius != 2 {
		t.Errorf("expected default preload radius, got %d", cfg.Shorts.PreloadRadius)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := GenerateDefaultConfig(path); err != nil {
		t.Fatalf("GenerateDefaultConfig: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if cfg.Shorts.SettleDelay != 150*time.Millisecond {
		t.Errorf("settle delay did not survive round trip: %v", cfg.Shorts.SettleDelay)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	got := expandPath("~/foo.db")
	want := filepath.Join(home, "foo.db")
	if got != want {
		t.Errorf("expandPath(~/foo.db) = %s, want %s", got, want)
	}
	if expandPath("") != "" {
		t.Error("empty path must stay empty")
	}
}
