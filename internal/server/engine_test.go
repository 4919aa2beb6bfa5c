package server

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeai/internal/config"
	"resumeai/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTaxonomy(t *testing.T, path, version string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "taxonomy", "taxonomy.yaml"))
	require.NoError(t, err)
	doc := strings.Replace(string(data), `version: "2024.1"`, `version: "`+version+`"`, 1)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
}

func TestEngineDefaultTaxonomy(t *testing.T) {
	e, err := NewEngine(config.EngineConfig{}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "2024.1", e.Optimizer().Taxonomy().Version())
	stats := e.Stats()
	assert.Equal(t, "(embedded)", stats["taxonomy_file"])
	assert.Equal(t, false, stats["watching"])
	assert.NoError(t, e.Watch())
	assert.NoError(t, e.Close())
}

func TestEngineReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	writeTaxonomy(t, path, "v1")

	e, err := NewEngine(config.EngineConfig{TaxonomyFile: path}, nil, nil)
	require.NoError(t, err)
	before := e.Optimizer()
	assert.Equal(t, "v1", before.Taxonomy().Version())

	writeTaxonomy(t, path, "v2")
	require.NoError(t, e.Reload())
	assert.Equal(t, "v2", e.Optimizer().Taxonomy().Version())
	assert.Equal(t, "v1", before.Taxonomy().Version())

	require.NoError(t, os.WriteFile(path, []byte("categories: [unterminated"), 0o600))
	err = e.Reload()
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTaxonomyInvalid, appErr.Code)
	assert.Equal(t, "v2", e.Optimizer().Taxonomy().Version())

	stats := e.Stats()
	assert.Equal(t, int64(1), stats["reloads"])
	assert.Equal(t, int64(1), stats["failed_reloads"])
}

func TestEngineRejectsMissingTaxonomy(t *testing.T) {
	_, err := NewEngine(config.EngineConfig{TaxonomyFile: filepath.Join(t.TempDir(), "nope.yaml")}, nil, nil)
	require.Error(t, err)
}
