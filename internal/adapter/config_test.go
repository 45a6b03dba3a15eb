package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendBolt, cfg.Storage.Backend)
	assert.Equal(t, FrontendTUI, cfg.UI.Frontend)
	assert.Equal(t, 25, cfg.Storage.Postgres.MaxOpenConns)
	assert.Equal(t, "15m", cfg.Storage.Postgres.MaxIdleTime)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "dvdshelf.db", filepath.Base(cfg.Storage.BoltPath))
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
storage:
  backend: postgres
  postgres:
    dsn: postgres://shelf@localhost/shelf?sslmode=disable
    max_open_conns: 4
ui:
  frontend: console
logging:
  level: debug
  stderr: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
	assert.Equal(t, "postgres://shelf@localhost/shelf?sslmode=disable", cfg.Storage.Postgres.DSN)
	assert.Equal(t, 4, cfg.Storage.Postgres.MaxOpenConns)
	assert.Equal(t, 25, cfg.Storage.Postgres.MaxIdleConns, "unset keys keep defaults")
	assert.Equal(t, FrontendConsole, cfg.UI.Frontend)
	assert.True(t, cfg.Logging.Stderr)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DVDSHELF_STORAGE_BACKEND", "memory")
	t.Setenv("DVDSHELF_UI_FRONTEND", "console")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, FrontendConsole, cfg.UI.Frontend)
}

func TestLoadConfigRejectsUnknownValues(t *testing.T) {
	t.Run("backend", func(t *testing.T) {
		t.Setenv("DVDSHELF_STORAGE_BACKEND", "sqlite")
		_, err := loadConfig(viper.New(), t.TempDir())
		assert.ErrorContains(t, err, "unknown storage backend")
	})

	t.Run("frontend", func(t *testing.T) {
		t.Setenv("DVDSHELF_UI_FRONTEND", "swing")
		_, err := loadConfig(viper.New(), t.TempDir())
		assert.ErrorContains(t, err, "unknown frontend")
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "shelf.db"), ExpandHome("~/shelf.db"))
	assert.Equal(t, "/var/lib/shelf.db", ExpandHome("/var/lib/shelf.db"))
}
