package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GOV_ENVIRONMENT", "production")
	t.Setenv("GOV_SERVER_PORT", "9000")
	t.Setenv("GOV_DATABASE_URL", "postgres://gov:gov@db:5432/governance")
	t.Setenv("GOV_REDIS_URL", "redis:6379")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "postgres://gov:gov@db:5432/governance", cfg.Database.URL)
	assert.Equal(t, "redis:6379", cfg.Redis.URL)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
environment: staging
server:
  port: 8081
  read_timeout: 10s
database:
  max_open_conns: 50
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
	// untouched keys keep defaults
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o644))
	t.Setenv("GOV_ENVIRONMENT", "production")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	require.Error(t, err)
}
