// ABOUTME: Coach configuration management with backend selection.
// ABOUTME: Handles settings, engine thresholds, and the storage, locker, and engine factories.

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/harperreed/coach/internal/charm"
	"github.com/harperreed/coach/internal/decision"
	"github.com/harperreed/coach/internal/engine"
	"github.com/harperreed/coach/internal/lock"
	"github.com/harperreed/coach/internal/logging"
	"github.com/harperreed/coach/internal/session"
	"github.com/harperreed/coach/internal/storage"
)

// Supported storage backends.
const (
	BackendSQLite   = "sqlite"
	BackendCharm    = "charm"
	BackendPostgres = "postgres"
)

// Config stores coach tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "charm", or "postgres".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts coach.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/coach.
	DataDir string `json:"data_dir,omitempty"`

	// PostgresDSN is required by the postgres backend.
	PostgresDSN string `json:"postgres_dsn,omitempty"`

	// DefaultUser is used when a command gets no --user flag and COACH_USER is unset.
	DefaultUser string `json:"default_user,omitempty"`

	// RedisAddr enables per-user locks shared across processes.
	RedisAddr string `json:"redis_addr,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
	LogFile  string `json:"log_file,omitempty"`
	LogJSON  bool   `json:"log_json,omitempty"`

	InactivityDays int `json:"inactivity_days,omitempty"`
	ReearnWeeks    int `json:"reearn_weeks,omitempty"`

	// LibraryPath replaces the built-in exercise library with a YAML file.
	LibraryPath string `json:"library_path,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// GetUser picks the user a command acts on: flag, then COACH_USER, then
// DefaultUser, then "me".
func (c *Config) GetUser(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("COACH_USER"); env != "" {
		return env
	}
	if c.DefaultUser != "" {
		return c.DefaultUser
	}
	return "me"
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// LoggerParams returns the logging setup described by the config.
func (c *Config) LoggerParams() logging.LoggerSetupParams {
	return logging.LoggerSetupParams{
		LogFileName:   ExpandPath(c.LogFile),
		LogToStderr:   c.LogFile == "",
		LogLevel:      c.GetLogLevel(),
		LogFormatJSON: c.LogJSON,
	}
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(ctx context.Context) (storage.Repository, error) {
	backend := c.GetBackend()

	switch backend {
	case BackendSQLite:
		dbPath := filepath.Join(c.GetDataDir(), "coach.db")
		return storage.Open(dbPath)
	case BackendCharm:
		return charm.InitClient()
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return nil, fmt.Errorf("postgres backend requires postgres_dsn")
		}
		return storage.OpenPostgres(ctx, c.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenLocker returns a Redis locker when RedisAddr is set, otherwise a process-local one.
func (c *Config) OpenLocker(ctx context.Context) (lock.Locker, error) {
	if c.RedisAddr == "" {
		return lock.NewLocal(), nil
	}
	client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", c.RedisAddr, err)
	}
	return lock.NewRedis(client, lock.DefaultTTL), nil
}

// EngineOptions returns the engine tuning described by the config.
func (c *Config) EngineOptions(logger log.FieldLogger) engine.Options {
	opts := engine.Options{
		Thresholds:  decision.DefaultThresholds(),
		ReearnWeeks: c.ReearnWeeks,
		Logger:      logger,
	}
	if c.InactivityDays > 0 {
		opts.Thresholds.InactivityDays = c.InactivityDays
	}
	return opts
}

// NewEngine builds an engine over the configured exercise library.
func (c *Config) NewEngine(logger log.FieldLogger) (*engine.Engine, error) {
	if c.LibraryPath == "" {
		return engine.NewDefault(c.EngineOptions(logger))
	}
	lib, err := session.LoadLibrary(ExpandPath(c.LibraryPath))
	if err != nil {
		return nil, fmt.Errorf("load exercise library: %w", err)
	}
	return engine.New(session.NewGenerator(lib), c.EngineOptions(logger)), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "coach", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
