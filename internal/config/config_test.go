package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "greenguide", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, int64(16<<20), cfg.HTTP.MaxUploadBytes)
	assert.Equal(t, "static/guidance", cfg.Guidance.StaticDir)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
app:
  env: production
  log_level: warn
http:
  addr: ":9090"
auth:
  jwt_secret: sekrit
  session_ttl: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "warn", cfg.App.LogLevel)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "sekrit", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("GREENGUIDE_HTTP_ADDR", ":7070")
	t.Setenv("GREENGUIDE_AUTH_JWT_SECRET", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Auth.JWTSecret = "sekrit"
		return cfg
	}

	t.Run("complete config passes", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("jwt secret required", func(t *testing.T) {
		cfg := base()
		cfg.Auth.JWTSecret = ""
		assert.ErrorContains(t, cfg.Validate(), "jwt_secret")
	})

	t.Run("http addr required", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.Addr = ""
		assert.ErrorContains(t, cfg.Validate(), "http.addr")
	})

	t.Run("mongo uri required", func(t *testing.T) {
		cfg := base()
		cfg.Mongo.URI = ""
		assert.ErrorContains(t, cfg.Validate(), "mongo.uri")
	})
}
