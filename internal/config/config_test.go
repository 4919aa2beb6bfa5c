package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "app:\n  logLevel: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "json", cfg.App.DefaultFormat)
	assert.Equal(t, []string{"json", "text", "markdown"}, cfg.App.SupportedFormats)
	assert.Equal(t, 20, cfg.Engine.MaxBatchSize)
	assert.Equal(t, 4, cfg.Engine.BatchConcurrency)
	assert.Equal(t, 15*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.CircuitBreaker.Enabled)
	assert.Equal(t, uint32(3), cfg.Fetch.CircuitBreaker.MinRequests)
	assert.Equal(t, "disabled", cfg.Server.TLS.Mode)
	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
}

func TestLoadFileOverrides(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, `
server:
  port: "9000"
  apiKeys: ["alpha", "beta"]
engine:
  taxonomyFile: /srv/taxonomy.yaml
  watchTaxonomy: true
  maxBatchSize: 5
fetch:
  timeout: 3s
  circuitBreaker:
    failureThreshold: 0.5
`))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
	assert.Equal(t, "/srv/taxonomy.yaml", cfg.Engine.TaxonomyFile)
	assert.True(t, cfg.Engine.WatchTaxonomy)
	assert.Equal(t, 5, cfg.Engine.MaxBatchSize)
	assert.Equal(t, 3*time.Second, cfg.Fetch.Timeout)
	assert.InDelta(t, 0.5, cfg.Fetch.CircuitBreaker.FailureThreshold, 1e-9)
}

func TestLoadFileEnvironment(t *testing.T) {
	t.Setenv("RESUMEAI_SERVER_PORT", "7070")
	t.Setenv("RESUMEAI_SERVER_APIKEYS", " one, ,two ")

	cfg, err := LoadFile(writeConfig(t, "app:\n  logLevel: info\n"))
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, []string{"one", "two"}, cfg.Server.APIKeys)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8080", TLS: TLSConfig{Mode: "disabled"}},
		App: AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text"},
			MaxFileSize:      1024,
		},
		Engine: EngineConfig{MaxBatchSize: 10, BatchConcurrency: 2},
		Fetch: FetchConfig{
			Timeout:        time.Second,
			CircuitBreaker: CircuitBreakerConfig{Enabled: true, FailureThreshold: 0.6},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port is required"},
		{"unknown format", func(c *Config) { c.App.DefaultFormat = "xml" }, "invalid default format: xml"},
		{"zero file size", func(c *Config) { c.App.MaxFileSize = 0 }, "maxFileSize"},
		{"zero batch", func(c *Config) { c.Engine.MaxBatchSize = 0 }, "maxBatchSize"},
		{"negative concurrency", func(c *Config) { c.Engine.BatchConcurrency = -1 }, "batchConcurrency"},
		{"watch without file", func(c *Config) { c.Engine.WatchTaxonomy = true }, "requires engine.taxonomyFile"},
		{"zero fetch timeout", func(c *Config) { c.Fetch.Timeout = 0 }, "fetch timeout"},
		{"breaker ratio", func(c *Config) { c.Fetch.CircuitBreaker.FailureThreshold = 1.5 }, "failureThreshold"},
		{"breaker disabled ignores ratio", func(c *Config) {
			c.Fetch.CircuitBreaker = CircuitBreakerConfig{FailureThreshold: 7}
		}, ""},
		{"bad tls", func(c *Config) { c.Server.TLS.Mode = "server" }, "TLS configuration error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.errorMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestIsSensitive(t *testing.T) {
	assert.True(t, isSensitive("RESUMEAI_SERVER_APIKEYS"))
	assert.True(t, isSensitive("RESUMEAI_VAULT_TOKEN"))
	assert.False(t, isSensitive("RESUMEAI_SERVER_PORT"))
}
