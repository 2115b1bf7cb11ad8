package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DirName is the per-project data directory.
const DirName = ".waypoints"

var (
	ErrUnknownKey   = errors.New("unknown config key")
	ErrInvalidValue = errors.New("invalid config value")
)

// Config represents the waypoints configuration
type Config struct {
	// Content
	CatalogPath  string `json:"catalog_path"`
	WatchCatalog bool   `json:"watch_catalog"`

	// Quote storage (sqlite). Empty keeps quotes in memory.
	StorePath string `json:"store_path"`

	// Logging. Empty disables the log file.
	LogPath string `json:"log_path"`
	Debug   bool   `json:"debug"`

	// UI preferences
	Theme string `json:"theme"`
	// Touch disables scroll throttling.
	Touch bool `json:"touch"`
	// FrameIntervalMS is the frame length of the scheduler fallback.
	FrameIntervalMS int `json:"frame_interval_ms"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		CatalogPath:     "catalog.yaml",
		WatchCatalog:    true,
		StorePath:       filepath.Join(DirName, "quote.db"),
		LogPath:         filepath.Join(DirName, "waypoints.log"),
		Theme:           "waypoints",
		FrameIntervalMS: 16,
	}
}

// FrameInterval returns FrameIntervalMS as a duration, 0 when unset.
func (c *Config) FrameInterval() time.Duration {
	if c.FrameIntervalMS <= 0 {
		return 0
	}
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// Manager handles configuration loading and saving
type Manager struct {
	projectPath string
	configPath  string
	config      *Config
}

// NewManager creates a new configuration manager
func NewManager(projectPath string) *Manager {
	return &Manager{
		projectPath: projectPath,
		configPath:  filepath.Join(projectPath, DirName, "config.json"),
		config:      DefaultConfig(),
	}
}

// Load reads the configuration from disk, creating defaults if needed
func (m *Manager) Load() error {
	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}

	if err := m.ensureGitignore(); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return m.Save()
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing keys keep their defaults.
	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	m.expandEnvVars(config)
	m.config = config
	return nil
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	return m.config
}

// Path resolves a configured path against the project directory.
func (m *Manager) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.projectPath, p)
}

// Set updates a configuration value and saves
func (m *Manager) Set(key, value string) error {
	switch key {
	case "catalog_path":
		m.config.CatalogPath = value
	case "watch_catalog":
		m.config.WatchCatalog = value == "true"
	case "store_path":
		m.config.StorePath = value
	case "log_path":
		m.config.LogPath = value
	case "debug":
		m.config.Debug = value == "true"
	case "theme":
		m.config.Theme = value
	case "touch":
		m.config.Touch = value == "true"
	case "frame_interval_ms":
		ms, err := strconv.Atoi(value)
		if err != nil || ms < 0 {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		m.config.FrameIntervalMS = ms
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	return m.Save()
}

// ensureGitignore keeps quotes and logs out of git
func (m *Manager) ensureGitignore() error {
	gitignorePath := filepath.Join(filepath.Dir(m.configPath), ".gitignore")

	if _, err := os.Stat(gitignorePath); !os.IsNotExist(err) {
		return nil
	}

	gitignoreContent := `# waypoints data directory
#
# config.json is meant to be committed; quotes hold contact details.

*.log
*.db
*.db-journal
*.tmp

!config.json
!.gitignore
`

	return os.WriteFile(gitignorePath, []byte(gitignoreContent), 0o644)
}

// expandEnvVars expands environment variables in path and theme values
func (m *Manager) expandEnvVars(config *Config) {
	config.CatalogPath = expandString(config.CatalogPath)
	config.StorePath = expandString(config.StorePath)
	config.LogPath = expandString(config.LogPath)
	config.Theme = expandString(config.Theme)
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandString expands $VAR and ${VAR}. Unset variables are left as is.
func expandString(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match
	})
}
