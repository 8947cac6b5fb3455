package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Gateway.Port)
	assert.Equal(t, time.Second, cfg.Gateway.ProbeTimeout)
	assert.Equal(t, 100, cfg.RateLimit.Max)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Development())
	assert.Equal(t, discovery.StaticMap{
		discovery.User:    {Host: "localhost", Port: 3001},
		discovery.Product: {Host: "localhost", Port: 3002},
		discovery.Order:   {Host: "localhost", Port: 3003},
	}, cfg.Services.StaticMap())
	assert.Equal(t, filepath.Join("data", "order-service.db"), cfg.Storage.SQLitePath(discovery.Order))
}

func TestLoadLegacyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PRODUCT_SERVICE_HOST", "products.internal")
	t.Setenv("PRODUCT_SERVICE_PORT", "4002")
	t.Setenv("NODE_ENV", "development")
	t.Setenv("CONSUL_PORT", "18500")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, discovery.Address{Host: "products.internal", Port: 4002}, cfg.Services.StaticMap()[discovery.Product])
	assert.True(t, cfg.Development())
	assert.Equal(t, 18500, cfg.Consul.Port)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gateway:
  port: 8080
  probe_timeout: 250ms
rate_limit:
  max: 5
log:
  level: debug
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Gateway.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Gateway.ProbeTimeout)
	assert.Equal(t, 5, cfg.RateLimit.Max)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
