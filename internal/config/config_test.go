// ABOUTME: Tests for coach configuration management.
// ABOUTME: Covers load, save, defaults, backend selection, engine wiring, and path expansion.
package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/coach/internal/decision"
	"github.com/harperreed/coach/internal/lock"
	"github.com/harperreed/coach/internal/models"
)

func setConfigHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	return tmpDir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "charm"}
	if got := cfg.GetBackend(); got != "charm" {
		t.Errorf("GetBackend() = %q, want %q", got, "charm")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	cfg := &Config{}

	// GetDataDir with empty DataDir should return storage.DataDir()
	got := cfg.GetDataDir()
	if got == "" {
		t.Error("GetDataDir() returned empty string")
	}
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/coach-test"}
	if got := cfg.GetDataDir(); got != "/tmp/coach-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/coach-test")
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"absolute", "/tmp/foo", "/tmp/foo"},
		{"tilde", "~", home},
		{"tilde slash", "~/data/coach", filepath.Join(home, "data/coach")},
		{"relative", "data/coach", "data/coach"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/coach-data"}
	got := cfg.GetDataDir()
	want := filepath.Join(home, "coach-data")
	if got != want {
		t.Errorf("GetDataDir() = %q, want %q", got, want)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	setConfigHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load() returned nil config")
	}
	if cfg.Backend != "" {
		t.Errorf("Expected empty Backend, got %q", cfg.Backend)
	}
	if cfg.DataDir != "" {
		t.Errorf("Expected empty DataDir, got %q", cfg.DataDir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	setConfigHome(t)

	cfg := &Config{
		Backend:        "postgres",
		DataDir:        "/tmp/coach-data",
		PostgresDSN:    "postgres://localhost/coach",
		RedisAddr:      "localhost:6379",
		InactivityDays: 10,
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("loaded = %+v, want %+v", loaded, cfg)
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "nonexistent"))

	cfg := &Config{Backend: "sqlite"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() should create directory: %v", err)
	}

	configDir := filepath.Join(tmpDir, "nonexistent", "coach")
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		t.Error("Expected config directory to be created")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := setConfigHome(t)

	configDir := filepath.Join(tmpDir, "coach")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte("invalid json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid JSON config")
	}
}

func TestGetConfigPath(t *testing.T) {
	tmpDir := setConfigHome(t)

	got := GetConfigPath()
	want := filepath.Join(tmpDir, "coach", "config.json")
	if got != want {
		t.Errorf("GetConfigPath() = %q, want %q", got, want)
	}
}

func TestOpenStorageSQLite(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &Config{Backend: "sqlite", DataDir: tmpDir}

	repo, err := cfg.OpenStorage(context.Background())
	if err != nil {
		t.Fatalf("OpenStorage() for sqlite failed: %v", err)
	}
	defer repo.Close()

	dbPath := filepath.Join(tmpDir, "coach.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Expected coach.db to be created")
	}
}

func TestOpenStorageDefaultBackend(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	repo, err := cfg.OpenStorage(context.Background())
	if err != nil {
		t.Fatalf("OpenStorage() with default backend failed: %v", err)
	}
	defer repo.Close()

	users, err := repo.ListUsers()
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("fresh store has users: %v", users)
	}
}

func TestOpenStorageErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"invalid backend", Config{Backend: "invalid", DataDir: "/tmp"}},
		{"postgres without dsn", Config{Backend: "postgres"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.OpenStorage(context.Background()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOpenLockerLocal(t *testing.T) {
	cfg := &Config{}
	l, err := cfg.OpenLocker(context.Background())
	if err != nil {
		t.Fatalf("OpenLocker failed: %v", err)
	}
	if _, ok := l.(*lock.LocalLocker); !ok {
		t.Errorf("got %T, want *lock.LocalLocker", l)
	}
}

func TestEngineOptions(t *testing.T) {
	opts := (&Config{}).EngineOptions(nil)
	if opts.Thresholds != decision.DefaultThresholds() {
		t.Errorf("Thresholds = %+v, want defaults", opts.Thresholds)
	}

	opts = (&Config{InactivityDays: 21, ReearnWeeks: 5}).EngineOptions(nil)
	if opts.Thresholds.InactivityDays != 21 {
		t.Errorf("InactivityDays = %d, want 21", opts.Thresholds.InactivityDays)
	}
	if opts.ReearnWeeks != 5 {
		t.Errorf("ReearnWeeks = %d, want 5", opts.ReearnWeeks)
	}
}

func TestNewEngine(t *testing.T) {
	e, err := (&Config{}).NewEngine(nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	state := models.NewTrainingState("ada", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC))
	if _, err := e.Advance(state, models.WeeklyInput{RawSessions: 3}); err != nil {
		t.Errorf("Advance failed: %v", err)
	}

	if _, err := (&Config{LibraryPath: filepath.Join(t.TempDir(), "missing.yaml")}).NewEngine(nil); err == nil {
		t.Error("expected error for missing library file")
	}
}

func TestLoggerParams(t *testing.T) {
	p := (&Config{}).LoggerParams()
	if p.LogLevel != "warn" || !p.LogToStderr || p.LogFileName != "" {
		t.Errorf("default params = %+v", p)
	}

	p = (&Config{LogLevel: "debug", LogFile: "/tmp/coach", LogJSON: true}).LoggerParams()
	if p.LogLevel != "debug" || p.LogToStderr || p.LogFileName != "/tmp/coach" || !p.LogFormatJSON {
		t.Errorf("params = %+v", p)
	}
}

func TestGetUser(t *testing.T) {
	t.Setenv("COACH_USER", "")
	cfg := &Config{}
	if got := cfg.GetUser(""); got != "me" {
		t.Errorf("GetUser() = %q, want me", got)
	}

	cfg.DefaultUser = "ada"
	if got := cfg.GetUser(""); got != "ada" {
		t.Errorf("GetUser() = %q, want ada", got)
	}

	t.Setenv("COACH_USER", "bo")
	if got := cfg.GetUser(""); got != "bo" {
		t.Errorf("GetUser() = %q, want bo", got)
	}
	if got := cfg.GetUser("cy"); got != "cy" {
		t.Errorf("GetUser(cy) = %q, want cy", got)
	}
}

func TestConfigJSONOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(&Config{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Expected empty JSON object, got %s", string(data))
	}
}
