// internal/config/config.go
//
// This package handles configuration and the .tagup directory structure.
// Every project that uses tagup gets a .tagup/ folder created in its root:
//
// .tagup/
// ├── state/        <- Persisted board state (tasks.json, tagUps.json)
// ├── logs/         <- Diagnostic log file
// └── config.yaml   <- User-editable settings

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// BoardDir is the name of the directory we create in each project.
	BoardDir = ".tagup"

	// BackendFile persists board state as JSON files under .tagup/state.
	BackendFile = "file"
	// BackendRedis persists board state in a local Redis database.
	BackendRedis = "redis"
)

const defaultConfigYAML = `# tagup board configuration
version: 1

# Where board state lives. "file" keeps JSON under .tagup/state (the
# default); "redis" stores the same blobs in a Redis database.
store:
  backend: file
  # redis:
  #   addr: localhost:6379
  #   password: ""
  #   db: 0

# Reload the board when the state files change on disk (hand edits,
# another shell). Off by default.
watch: false

# Verbose diagnostic logging.
debug: false
`

// RedisSettings holds the connection details for the redis backend.
type RedisSettings struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// StoreSettings selects and configures the persistence backend.
type StoreSettings struct {
	Backend string        `yaml:"backend"`
	Redis   RedisSettings `yaml:"redis,omitempty"`
}

// Settings models .tagup/config.yaml.
type Settings struct {
	Version int           `yaml:"version"`
	Store   StoreSettings `yaml:"store"`
	Watch   bool          `yaml:"watch"`
	Debug   bool          `yaml:"debug"`
}

// Config holds the runtime configuration for a tagup board.
type Config struct {
	// ProjectDir is the directory where the user ran `tagup` from.
	ProjectDir string

	// BoardProjectDir is ProjectDir/.tagup.
	BoardProjectDir string

	Settings Settings
}

func defaultSettings() Settings {
	return Settings{
		Version: 1,
		Store: StoreSettings{
			Backend: BackendFile,
			Redis:   RedisSettings{Addr: "localhost:6379"},
		},
	}
}

// InitBoardDir creates the .tagup directory structure in the given project
// directory. This is called before the TUI starts up.
func InitBoardDir(projectDir string) error {
	boardDir := filepath.Join(projectDir, BoardDir)

	dirs := []string{
		filepath.Join(boardDir, "state"),
		filepath.Join(boardDir, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return ensureConfigFile(filepath.Join(boardDir, "config.yaml"))
}

// NewConfig creates a Config populated with project settings. A missing
// config.yaml is not an error; defaults apply.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:      projectDir,
		BoardProjectDir: filepath.Join(projectDir, BoardDir),
		Settings:        defaultSettings(),
	}
	if err := cfg.loadSettings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StateDir returns the directory holding the persisted board state.
func (c *Config) StateDir() string {
	return filepath.Join(c.BoardProjectDir, "state")
}

// LogsDir returns the directory holding the diagnostic log.
func (c *Config) LogsDir() string {
	return filepath.Join(c.BoardProjectDir, "logs")
}

// ConfigPath returns the on-disk location of the settings file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.BoardProjectDir, "config.yaml")
}

func (c *Config) loadSettings() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var loaded Settings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	c.Settings = mergeSettings(c.Settings, loaded)

	switch c.Settings.Store.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Settings.Store.Backend)
	}
	return nil
}

// mergeSettings overlays loaded values onto the defaults so a partial
// config.yaml keeps working.
func mergeSettings(base, loaded Settings) Settings {
	out := base
	if loaded.Version != 0 {
		out.Version = loaded.Version
	}
	if backend := strings.TrimSpace(loaded.Store.Backend); backend != "" {
		out.Store.Backend = backend
	}
	if addr := strings.TrimSpace(loaded.Store.Redis.Addr); addr != "" {
		out.Store.Redis.Addr = addr
	}
	if loaded.Store.Redis.Password != "" {
		out.Store.Redis.Password = loaded.Store.Redis.Password
	}
	if loaded.Store.Redis.DB != 0 {
		out.Store.Redis.DB = loaded.Store.Redis.DB
	}
	out.Watch = loaded.Watch
	out.Debug = loaded.Debug
	return out
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("config: write default %s: %w", path, err)
	}
	return nil
}
