// ABOUTME: Fitlog configuration management with backend selection.
// ABOUTME: Handles settings, FITLOG_* environment overrides, and the storage backend factory.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/fitlog/internal/charm"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/joho/godotenv"
)

const (
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"

	defaultUser     = "default"
	defaultLogLevel = "warn"
)

// Environment variables that override values from config.json.
const (
	EnvBackend  = "FITLOG_BACKEND"
	EnvDataDir  = "FITLOG_DATA_DIR"
	EnvUser     = "FITLOG_USER"
	EnvLogLevel = "FITLOG_LOG_LEVEL"
)

// Config stores fitlog configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts fitlog.db
	// here. Supports ~ expansion for home directory. Defaults to
	// ~/.local/share/fitlog.
	DataDir string `json:"data_dir,omitempty"`

	// User owns new log entries when no --user flag is given. Defaults to
	// $USER.
	User string `json:"user,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty"`
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

// GetUser returns the configured user, falling back to $USER.
func (c *Config) GetUser() models.UserID {
	if u := strings.TrimSpace(c.User); u != "" {
		return models.UserID(u)
	}
	if u := strings.TrimSpace(os.Getenv("USER")); u != "" {
		return models.UserID(u)
	}
	return defaultUser
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
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

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir())
}

// OpenBackend opens the named backend. dataDir is only used by sqlite.
func OpenBackend(backend, dataDir string) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "fitlog.db"))
	case BackendCharm:
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitlog", "config.json")
}

// GetEnvPath returns the optional dotenv file that sits beside config.json.
func GetEnvPath() string {
	return filepath.Join(filepath.Dir(GetConfigPath()), ".env")
}

// ApplyEnv overrides config values with FITLOG_* variables. The process
// environment wins over the .env file; empty values are ignored.
func (c *Config) ApplyEnv() error {
	path := GetEnvPath()
	fileVars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read %s: %w", path, err)
		}
		fileVars = map[string]string{}
	}

	fields := map[string]*string{
		EnvBackend:  &c.Backend,
		EnvDataDir:  &c.DataDir,
		EnvUser:     &c.User,
		EnvLogLevel: &c.LogLevel,
	}
	for key, field := range fields {
		v, ok := os.LookupEnv(key)
		if !ok {
			v = fileVars[key]
		}
		if v = strings.TrimSpace(v); v != "" {
			*field = v
		}
	}
	return nil
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
		return nil, fmt.Errorf("parse %s: %w", path, err)
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
