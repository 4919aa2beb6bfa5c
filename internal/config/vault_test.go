package config

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"resumeai/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

// fakeVault serves the health endpoint and a single KVv2 secret.
func fakeVault(t *testing.T, secretPath string, secret map[string]any) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sys/health", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"initialized": true, "sealed": false, "standby": false, "version": "1.17.0",
		})
	})
	mux.HandleFunc("/v1/"+secretPath, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "test-token" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": secret})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "json number", input: json.Number("7"), expected: 7},
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "missing", input: nil, expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "secret/data/x")
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(tokenFile, []byte("  file-token\n"), 0o600))

	token, err := resolveVaultToken(VaultConfig{Token: "direct"})
	require.NoError(t, err)
	assert.Equal(t, "direct", token)

	token, err = resolveVaultToken(VaultConfig{TokenFile: tokenFile})
	require.NoError(t, err)
	assert.Equal(t, "file-token", token)

	_, err = resolveVaultToken(VaultConfig{TokenFile: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)

	_, err = resolveVaultToken(VaultConfig{})
	assert.ErrorContains(t, err, "vault token is required")
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{
		Server: ServerConfig{APIKeys: []string{"local"}},
		Vault:  VaultConfig{Enabled: false, Secrets: VaultSecrets{APIKeys: "secret/data/x"}},
	}
	require.NoError(t, ApplyVaultSecrets(config, newTestLogger()))
	assert.Equal(t, []string{"local"}, config.Server.APIKeys)
}

func TestApplyVaultSecretsLoadsAPIKeys(t *testing.T) {
	srv := fakeVault(t, "secret/data/resumeai", map[string]any{
		"data":     map[string]any{"keys": "alpha, beta,,gamma"},
		"metadata": map[string]any{"version": 3},
	})

	config := &Config{
		Server: ServerConfig{APIKeys: []string{"local"}},
		Vault: VaultConfig{
			Enabled: true,
			Address: srv.URL,
			Token:   "test-token",
			Secrets: VaultSecrets{APIKeys: "secret/data/resumeai"},
		},
	}
	require.NoError(t, ApplyVaultSecrets(config, newTestLogger()))
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, config.Server.APIKeys)
}

func TestGetSecretV2(t *testing.T) {
	srv := fakeVault(t, "secret/data/app", map[string]any{
		"data":     map[string]any{"keys": "k1"},
		"metadata": map[string]any{"version": 12},
	})
	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: srv.URL, Token: "test-token"}, nil)
	require.NoError(t, err)

	secret, err := client.GetSecretV2("secret/data/app")
	require.NoError(t, err)
	assert.Equal(t, int64(12), secret.Version)
	assert.Equal(t, "k1", secret.Data["keys"])

	_, err = client.GetStringSliceSecret("secret/data/app", "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestGetSecretV2NotKVv2(t *testing.T) {
	srv := fakeVault(t, "secret/app", map[string]any{"keys": "k1"})
	client, err := NewVaultClient(VaultConfig{Enabled: true, Address: srv.URL, Token: "test-token"}, nil)
	require.NoError(t, err)

	_, err = client.GetSecretV2("secret/app")
	assert.ErrorContains(t, err, "not in KVv2 format")
}

func TestNilVaultClient(t *testing.T) {
	var vc *VaultClient
	_, err := vc.GetSecretV2("secret/data/x")
	assert.ErrorContains(t, err, "not initialized")

	client, err := NewVaultClient(VaultConfig{}, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)
}
