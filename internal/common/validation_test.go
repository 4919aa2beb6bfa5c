package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}
	tests := []struct {
		name          string
		format        string
		supported     []string
		expectedError string
	}{
		{name: "json", format: "json", supported: supported},
		{name: "text", format: "text", supported: supported},
		{name: "markdown", format: "markdown", supported: supported},
		{
			name:          "yaml is not offered",
			format:        "yaml",
			supported:     supported,
			expectedError: "unsupported output format 'yaml'. Supported formats: [json text markdown]",
		},
		{
			name:          "formats are case sensitive",
			format:        "JSON",
			supported:     supported,
			expectedError: "unsupported output format 'JSON'. Supported formats: [json text markdown]",
		},
		{
			name:          "empty format",
			format:        "",
			supported:     supported,
			expectedError: "unsupported output format ''. Supported formats: [json text markdown]",
		},
		{name: "no restriction configured", format: "xml", supported: nil},
		{
			name:          "restricted to json",
			format:        "text",
			supported:     []string{"json"},
			expectedError: "unsupported output format 'text'. Supported formats: [json]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.expectedError)
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	supported := []string{"json", "text", "markdown"}

	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", supported)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", supported)
		}
	})
}
