package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk gone")
	err := NewIOError(ErrCodeFileNotReadable, "cannot read resume.txt", cause)

	assert.Equal(t, "FILE_NOT_READABLE: cannot read resume.txt (caused by: disk gone)", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewValidationError(ErrCodeJDTooShort, "job description too short", nil)
	assert.Equal(t, "JD_TOO_SHORT: job description too short", plain.Error())
}

func TestAsAppErrorFindsWrappedError(t *testing.T) {
	inner := NewExtractionError(ErrCodeExtractionFailed, "empty document", nil)
	wrapped := fmt.Errorf("parse resume: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrorTypeExtraction, appErr.Type)

	_, ok = AsAppError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestLogErrorExpandsAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, slog.LevelDebug)

	err := NewValidationError(ErrCodeInvalidResume, "bad resume", nil).WithContext("field", "skills")
	logger.LogError(err, "request failed", "path", "/score")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request failed", entry["msg"])
	assert.Equal(t, "validation", entry["error_type"])
	assert.Equal(t, "INVALID_RESUME", entry["error_code"])
	assert.Equal(t, "skills", entry["field"])
	assert.Equal(t, "/score", entry["path"])
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := New(level)
		require.NoError(t, err, level)
		assert.NotNil(t, logger)
	}

	_, err := New("verbose")
	assert.Error(t, err)
}
