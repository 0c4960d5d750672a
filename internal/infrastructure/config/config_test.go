package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	store, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if store.Settings.RefreshIntervalMinutes != 15 {
		t.Errorf("Expected default refresh interval 15, got %d", store.Settings.RefreshIntervalMinutes)
	}
	if store.Settings.RefreshInterval() != 15*time.Minute {
		t.Errorf("RefreshInterval() = %v, want 15m", store.Settings.RefreshInterval())
	}
	if store.Settings.APIBaseURL != "" {
		t.Errorf("Expected empty default API base URL, got %q", store.Settings.APIBaseURL)
	}
	if store.Settings.KeyMap.AddFeed != "a" {
		t.Errorf("Expected default KeyMap.AddFeed 'a', got %q", store.Settings.KeyMap.AddFeed)
	}
	if store.Settings.Theme.FeedName != "244" {
		t.Errorf("Expected default Theme.FeedName '244', got %q", store.Settings.Theme.FeedName)
	}
	if filepath.Base(store.Settings.DataFile) != "feedra.db" {
		t.Errorf("Expected default data file path, got %q", store.Settings.DataFile)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file not created")
	}
}

func TestLoad_ReadsFileValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := strings.Join([]string{
		"refresh_interval_minutes: 5",
		"api_base_url: http://localhost:8000/api/v1",
		"keymap:",
		"  add_feed: n",
	}, "\n") + "\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	store, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if store.Settings.RefreshIntervalMinutes != 5 {
		t.Errorf("RefreshIntervalMinutes = %d, want 5", store.Settings.RefreshIntervalMinutes)
	}
	if store.Settings.APIBaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("APIBaseURL = %q", store.Settings.APIBaseURL)
	}
	if store.Settings.KeyMap.AddFeed != "n" {
		t.Errorf("KeyMap.AddFeed = %q, want 'n'", store.Settings.KeyMap.AddFeed)
	}
	// Unset keys keep their defaults.
	if store.Settings.KeyMap.Quit != "q" {
		t.Errorf("KeyMap.Quit = %q, want default 'q'", store.Settings.KeyMap.Quit)
	}
}

func TestSetRefreshIntervalPersists(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	store, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.SetRefreshInterval(30); err != nil {
		t.Fatalf("SetRefreshInterval failed: %v", err)
	}

	reloaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Settings.RefreshIntervalMinutes != 30 {
		t.Errorf("reloaded interval = %d, want 30", reloaded.Settings.RefreshIntervalMinutes)
	}
}

func TestSetRefreshIntervalRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	store, err := Load(filepath.Join(tmpDir, "config.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := store.SetRefreshInterval(0); err == nil {
		t.Error("Expected error for zero interval")
	}
	if err := store.SetRefreshInterval(-5); err == nil {
		t.Error("Expected error for negative interval")
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("refresh_interval_minutes: [not an int\n"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for corrupt config")
	}
}
