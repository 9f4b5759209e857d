// ABOUTME: Sleepcoach configuration management with backend selection.
// ABOUTME: Handles settings, defaults, and the storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/sleepcoach/internal/advice"
	"github.com/harperreed/sleepcoach/internal/storage"
)

// Config stores sleepcoach configuration.
type Config struct {
	// Backend selects the storage backend: "json" (default) or "sqlite".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// JSON puts a users/ folder here. SQLite puts sleepcoach.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/sleepcoach.
	DataDir string `json:"data_dir,omitempty"`

	// ListenAddr is the web server bind address. Defaults to ":8799".
	ListenAddr string `json:"listen_addr,omitempty"`

	// DefaultUser is the user shown when no ?user= is given. Defaults to "me".
	DefaultUser string `json:"default_user,omitempty"`

	// WebDir is the templates/static root. Defaults to "./web".
	WebDir string `json:"web_dir,omitempty"`

	// KnowledgePath points at a knowledge-base JSON file.
	// Empty means the built-in facts.
	KnowledgePath string `json:"knowledge_path,omitempty"`

	// Advice tunes the selector thresholds. Nil means defaults.
	Advice *advice.Thresholds `json:"advice,omitempty"`

	// Coach configures the AI coaching client. An empty API key
	// disables AI coaching.
	Coach *CoachConfig `json:"coach,omitempty"`
}

// CoachConfig holds language-model client settings. Zero values fall
// back to the client's own defaults.
type CoachConfig struct {
	APIKey         string  `json:"api_key,omitempty"`
	Model          string  `json:"model,omitempty"`
	TimeoutSeconds int     `json:"timeout_seconds,omitempty"`
	MaxTokens      int     `json:"max_tokens,omitempty"`
	Temperature    float64 `json:"temperature,omitempty"`
	BaseURL        string  `json:"base_url,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "json".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "json"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetListenAddr returns the web server bind address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return ":8799"
	}
	return c.ListenAddr
}

// GetDefaultUser returns the user shown without an explicit ?user=.
func (c *Config) GetDefaultUser() string {
	if c.DefaultUser == "" {
		return "me"
	}
	return c.DefaultUser
}

// GetWebDir returns the templates/static root with ~ expanded.
func (c *Config) GetWebDir() string {
	if c.WebDir == "" {
		return "./web"
	}
	return ExpandPath(c.WebDir)
}

// GetKnowledgePath returns the knowledge-base path with ~ expanded.
// Empty means built-in facts.
func (c *Config) GetKnowledgePath() string {
	return ExpandPath(c.KnowledgePath)
}

// GetThresholds returns the advice thresholds, defaulting sensibly.
func (c *Config) GetThresholds() advice.Thresholds {
	if c.Advice == nil {
		return advice.DefaultThresholds()
	}
	return *c.Advice
}

// GetCoach returns the coach settings, never nil semantics for callers.
func (c *Config) GetCoach() CoachConfig {
	if c.Coach == nil {
		return CoachConfig{}
	}
	return *c.Coach
}

// defaultDataDir returns the XDG data directory for sleepcoach.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "sleepcoach")
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
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend creates a specific Repository implementation, used by
// OpenStorage and by backend migration.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case "json":
		return storage.OpenJSON(dataDir)
	case "sqlite":
		dbPath := filepath.Join(dataDir, "sleepcoach.db")
		return storage.OpenSQLite(dbPath)
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
	return filepath.Join(configDir, "sleepcoach", "config.json")
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
