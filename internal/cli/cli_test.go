package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumeai/internal/config"
	"resumeai/internal/errors"
	"resumeai/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jobDescription = `Senior Backend Engineer
We're looking for a Senior Backend Engineer to join our platform team.

Responsibilities:
- Design and build scalable microservices and REST APIs in Python and Go
- Deploy services on AWS using Docker and Kubernetes

Requirements:
- 5-7 years of experience required
- Strong communication and leadership skills
`

const resumeText = `Jane Doe
jane@example.com

Summary
Backend developer with 6 years of experience.

Skills
Python, Django, MySQL, Docker

Experience
Engineer at Acme
- Was responsible for managing a team of 5 engineers
- Deployed the billing service

Education
BSc Computer Science
`

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1 << 20,
		},
		Engine: config.EngineConfig{BatchConcurrency: 2},
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	ctx := context.WithValue(context.Background(), configKey, testConfig())
	ctx = context.WithValue(ctx, loggerKey, errors.NewWithWriter(io.Discard, slog.LevelError))

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	jd := writeFile(t, dir, "jd.txt", jobDescription)

	out, err := run(t, "analyze", jd)
	require.NoError(t, err)

	var profile types.JDProfile
	require.NoError(t, json.Unmarshal([]byte(out), &profile))
	assert.Equal(t, types.LevelSenior, profile.ExperienceLevel)
	assert.Contains(t, profile.TechnicalSkills, "python")
}

func TestAnalyzeCommandArgs(t *testing.T) {
	_, err := run(t, "analyze")
	assert.Error(t, err)

	_, err = run(t, "analyze", "jd.txt", "--url", "https://example.com")
	assert.Error(t, err)
}

func TestAnalyzeCommandRejectsShortJD(t *testing.T) {
	jd := writeFile(t, t.TempDir(), "jd.txt", "too short")
	_, err := run(t, "analyze", jd)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeJDTooShort, appErr.Code)
}

func TestParseCommand(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.txt", resumeText)

	out, err := run(t, "parse", path)
	require.NoError(t, err)

	var r types.Resume
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, "text", r.SourceFormat)
	assert.Contains(t, r.Skills, "Python")
}

func TestParseCommandTextFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.md", resumeText)

	out, err := run(t, "parse", path, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "RESUME")
	assert.Contains(t, out, "Jane Doe")
}

func TestUnsupportedFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "resume.txt", resumeText)
	_, err := run(t, "parse", path, "--format", "yaml")
	assert.Error(t, err)
}

func TestScoreCommand(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", resumeText)
	jd := writeFile(t, dir, "jd.txt", jobDescription)

	out, err := run(t, "score", resume, jd)
	require.NoError(t, err)

	var report types.ATSReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Greater(t, report.Total, 0)
	assert.NotEmpty(t, report.Grade)
}

func TestOptimizeCommandSeeded(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", resumeText)
	jd := writeFile(t, dir, "jd.txt", jobDescription)

	first, err := run(t, "optimize", resume, jd, "--seed", "42")
	require.NoError(t, err)
	second, err := run(t, "optimize", resume, jd, "--seed", "42")
	require.NoError(t, err)
	assert.JSONEq(t, first, second)

	var result types.OptimizeResult
	require.NoError(t, json.Unmarshal([]byte(first), &result))
	assert.GreaterOrEqual(t, result.ATS.After, result.ATS.Before)
}

func TestOptimizeCommandBatchToFile(t *testing.T) {
	dir := t.TempDir()
	resume := writeFile(t, dir, "resume.txt", resumeText)
	jd := writeFile(t, dir, "jd.txt", jobDescription)
	short := writeFile(t, dir, "short.txt", "too short")
	outFile := filepath.Join(dir, "out", "batch.json")

	out, err := run(t, "optimize", resume, jd, short, "-o", outFile, "--concurrency", "1")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var batch types.BatchResult
	require.NoError(t, json.Unmarshal(data, &batch))
	require.Len(t, batch.Items, 2)
	assert.NotNil(t, batch.Items[0].Result)
	assert.NotEmpty(t, batch.Items[1].Error)
}

func TestOptimizeCommandMissingFile(t *testing.T) {
	dir := t.TempDir()
	jd := writeFile(t, dir, "jd.txt", jobDescription)
	_, err := run(t, "optimize", filepath.Join(dir, "missing.txt"), jd)
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeFileNotFound, appErr.Code)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumeai version dev")
}

func TestApplyServeFlags(t *testing.T) {
	cmd := newServeCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--port", "9999", "--tls-mode", "server"}))

	cfg := &config.Config{Server: config.ServerConfig{Port: "8080", Host: "localhost"}}
	applyServeFlags(cmd, cfg)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "server", cfg.Server.TLS.Mode)
}
