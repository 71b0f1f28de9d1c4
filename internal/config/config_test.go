package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, "memory", cfg.Queue.Driver)
	require.Equal(t, 3*time.Second, cfg.Queue.Delay)
	require.Equal(t, "http", cfg.Transport.Mode)
	require.False(t, cfg.Auth.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
db:
  path: /tmp/file.db
queue:
  delay: 500ms
log:
  level: debug
`), 0o644))

	t.Setenv("SLOTBOARD_CONFIG_PATH", path)
	t.Setenv("SLOTBOARD_DB_PATH", "/tmp/env.db")
	t.Setenv("SLOTBOARD_AUTH_ENABLED", "true")
	t.Setenv("SLOTBOARD_AUTH_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, 500*time.Millisecond, cfg.Queue.Delay)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Auth.Enabled)
	require.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SLOTBOARD_SERVER_PORT", "not-a-number")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Auth.Enabled = true
	require.ErrorContains(t, cfg.Validate(), "jwt_secret")

	cfg = Default()
	cfg.DB.Driver = "postgres"
	require.ErrorContains(t, cfg.Validate(), "db.url")

	cfg = Default()
	cfg.Queue.Driver = "redis"
	require.ErrorContains(t, cfg.Validate(), "redis_url")

	cfg = Default()
	cfg.Transport.Mode = "grpc"
	require.ErrorContains(t, cfg.Validate(), "transport.mode")
}
