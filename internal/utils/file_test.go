package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(file, []byte("Jane"), 0o600))

	assert.NoError(t, ValidateInputFile(file))
	assert.EqualError(t, ValidateInputFile(""), "filename cannot be empty")
	assert.ErrorContains(t, ValidateInputFile(filepath.Join(dir, "missing.txt")), "file does not exist")
	assert.ErrorContains(t, ValidateInputFile(dir), "path is a directory")
}

func TestValidateOutputFileCreatesDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "result.json")
	require.NoError(t, ValidateOutputFile(out))
	assert.DirExists(t, filepath.Dir(out))
	assert.NoError(t, ValidateOutputFile(""))
}

func TestExtensions(t *testing.T) {
	assert.Equal(t, ".pdf", GetFileExtension("CV.PDF"))
	assert.True(t, IsJSONFile("resume.JSON"))
	assert.False(t, IsJSONFile("resume.txt"))
	assert.True(t, HasExtension("jd.HTM", ".html", ".htm"))
	assert.False(t, HasExtension("jd", ".html"))
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.size))
	}
}
