package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pointConfigAt(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	t.Setenv("CONFIG_FILE", path)
}

func TestLoadDefaults(t *testing.T) {
	pointConfigAt(t, "")

	cfg := Load()
	assert.Equal(t, "technotes", cfg.App.Name)
	assert.Equal(t, 3500, cfg.API.Port)
	assert.Equal(t, []string{"*"}, cfg.API.CORSOrigins)
	assert.Equal(t, "ws://localhost:8000/rpc", cfg.Database.URL)
	assert.False(t, cfg.Security.EnableRateLimit)
	assert.Equal(t, 120, cfg.Security.RateLimitPerMinute)
}

func TestLoadYAMLFile(t *testing.T) {
	pointConfigAt(t, `
api:
  port: 8080
  cors_origins:
    - http://one.example
    - http://two.example
database:
  namespace: prod
security:
  enable_rate_limit: true
`)

	cfg := Load()
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, []string{"http://one.example", "http://two.example"}, cfg.API.CORSOrigins)
	assert.Equal(t, "prod", cfg.Database.Namespace)
	assert.True(t, cfg.Security.EnableRateLimit)
}

func TestEnvOverridesYAML(t *testing.T) {
	pointConfigAt(t, `
api:
  port: 8080
`)
	t.Setenv("API_PORT", "9090")
	t.Setenv("API_CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("SURREAL_USER", "svc")

	cfg := Load()
	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.API.CORSOrigins)
	assert.Equal(t, "svc", cfg.Database.Username)
}
