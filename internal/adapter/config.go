package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Backend identifies the storage implementation behind the collection
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendBolt     Backend = "bolt"
	BackendPostgres Backend = "postgres"
)

// Frontend identifies the user interface to run
type Frontend string

const (
	FrontendConsole Frontend = "console"
	FrontendTUI     Frontend = "tui"
)

// Config holds all application configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig selects and configures the collection backend
type StorageConfig struct {
	Backend  Backend        `mapstructure:"backend"`   // "memory", "bolt" or "postgres"
	BoltPath string         `mapstructure:"bolt_path"` // Database file for the bolt backend
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// PostgresConfig holds connection pool settings for the postgres backend
type PostgresConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxIdleTime  string `mapstructure:"max_idle_time"` // e.g. "15m"
}

// UIConfig holds front end configuration
type UIConfig struct {
	Frontend Frontend `mapstructure:"frontend"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`
	Level  string `mapstructure:"level"`
	Stderr bool   `mapstructure:"stderr"` // Also log to stderr (console front end only)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:  BackendBolt,
			BoltPath: filepath.Join(defaultDataPath(), "dvdshelf.db"),
			Postgres: PostgresConfig{
				MaxOpenConns: 25,
				MaxIdleConns: 25,
				MaxIdleTime:  "15m",
			},
		},
		UI: UIConfig{
			Frontend: FrontendTUI,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "dvdshelf.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the directory for the database and log files
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "dvdshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "dvdshelf")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "dvdshelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "dvdshelf")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, searchPaths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. DVDSHELF_STORAGE_BACKEND
	v.SetEnvPrefix("DVDSHELF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv values reach Unmarshal
// even when no config file mentions them
func bindEnvKeys(v *viper.Viper) {
	for _, key := range []string{
		"storage.backend",
		"storage.bolt_path",
		"storage.postgres.dsn",
		"storage.postgres.max_open_conns",
		"storage.postgres.max_idle_conns",
		"storage.postgres.max_idle_time",
		"ui.frontend",
		"logging.file",
		"logging.level",
		"logging.stderr",
	} {
		_ = v.BindEnv(key)
	}
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory, BackendBolt, BackendPostgres:
	default:
		return fmt.Errorf("unknown storage backend %q (want memory, bolt or postgres)", c.Storage.Backend)
	}

	switch c.UI.Frontend {
	case FrontendConsole, FrontendTUI:
	default:
		return fmt.Errorf("unknown frontend %q (want console or tui)", c.UI.Frontend)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
