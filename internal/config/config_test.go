package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: data/shareit.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shareit", cfg.App.Name)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.NotZero(t, cfg.API.RateLimit.RPS)
	assert.NotZero(t, cfg.API.RateLimit.Burst)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.NotZero(t, cfg.Redis.TTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: shareit-test
  environment: test
database:
  path: data/test.db
redis:
  enabled: true
  address: localhost:6379
  ttl: 120
api:
  port: 9000
  rate_limit:
    rps: 50
    burst: 100
monitoring:
  prometheus_enabled: true
backup:
  enabled: true
  schedule: 12h
  storage_path: backups
exports:
  enabled: true
  path: out
google:
  enabled: true
  credentials_file: creds.json
  bookings_spreadsheet_id: sheet-id
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shareit-test", cfg.App.Name)
	assert.Equal(t, 9000, cfg.API.Port)
	assert.Equal(t, float64(50), cfg.API.RateLimit.RPS)
	assert.Equal(t, 100, cfg.API.RateLimit.Burst)
	assert.Equal(t, 120, cfg.Redis.TTL)
	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
	assert.Equal(t, "out", cfg.Exports.Path)
	assert.Equal(t, "sheet-id", cfg.Google.BookingSpreadSheetID)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_DB_PATH", "/tmp/expanded.db")

	path := writeConfig(t, `
database:
  path: ${TEST_DB_PATH}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "database: [broken")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("missing database path", func(t *testing.T) {
		path := writeConfig(t, `
app:
  name: shareit
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database path")
	})

	t.Run("redis enabled without address", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: data/shareit.db
redis:
  enabled: true
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "redis address")
	})

	t.Run("google enabled without credentials", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: data/shareit.db
google:
  enabled: true
  bookings_spreadsheet_id: sheet-id
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials")
	})

	t.Run("google enabled without spreadsheet", func(t *testing.T) {
		path := writeConfig(t, `
database:
  path: data/shareit.db
google:
  enabled: true
  credentials_file: creds.json
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "spreadsheet")
	})
}
