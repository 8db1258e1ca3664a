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

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, 5.0, cfg.Search.DefaultRadiusKm)
	assert.Equal(t, 5000, cfg.Discovery.DefaultRadius)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.AllowedOrigins)
	assert.False(t, cfg.Release())
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("GIN_MODE", "release")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.True(t, cfg.Release())
}

func TestLoadPrefixedEnvWins(t *testing.T) {
	t.Setenv("JWT_SECRET", "legacy")
	t.Setenv("SURPLUS_AUTH_JWT_SECRET", "prefixed")
	t.Setenv("SURPLUS_SEARCH_PAGE_SIZE", "25")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "prefixed", cfg.Auth.JWTSecret)
	assert.Equal(t, 25, cfg.Search.PageSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
database:
  driver: postgres
  dsn: host=db user=app dbname=food sslmode=disable
auth:
  token_ttl: 2h
discovery:
  limit: 5
`)
	require.NoError(t, os.WriteFile(path, body, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5, cfg.Discovery.Limit)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Database.Driver = "mysql"
	cfg.Auth.JWTSecret = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
	assert.Contains(t, err.Error(), "jwt_secret")
}
