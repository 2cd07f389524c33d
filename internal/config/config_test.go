package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YKarmar/JobTracker/internal/input"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("EMAIL_PASSWORD", "")
	t.Setenv("EMAIL_APP_PASSWORD", "")

	cfg, err := Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, 100, cfg.Fetch.MaxEmails)
	assert.Equal(t, "linkedin.com", cfg.Fetch.Sender)
	assert.Equal(t, input.DefaultColumns(), cfg.Input.Columns)
	assert.Positive(t, cfg.Parse.Workers)
	assert.Equal(t, 500*1024, cfg.Parse.MaxBodyBytes)
	assert.False(t, cfg.Parse.AllSenders)
	assert.Equal(t, "jobs.csv", cfg.Export.CSV)
	assert.Empty(t, cfg.Export.XLSX)
	assert.Equal(t, []string{"INBOX"}, cfg.IMAP.Folders)
	assert.Empty(t, cfg.IMAP.Password)
	assert.Error(t, cfg.ValidateIMAP())
}

func TestParseInfersProvider(t *testing.T) {
	cfg, err := Parse([]byte("imap:\n  email: someone@gmail.com\n"))
	require.NoError(t, err)
	assert.Equal(t, "gmail", cfg.IMAP.Provider)
	assert.Equal(t, "imap.gmail.com:993", cfg.IMAP.Host)
	assert.True(t, cfg.IMAP.UseTLS)
	assert.Equal(t, []string{"INBOX", "[Gmail]/All Mail"}, cfg.IMAP.Folders)
	assert.NoError(t, cfg.ValidateIMAP())

	cfg, err = Parse([]byte("imap:\n  email: me@company.example\n"))
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.IMAP.Provider)
	assert.Empty(t, cfg.IMAP.Host)
	assert.ErrorContains(t, cfg.ValidateIMAP(), "imap.host")
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("JT_TEST_KEY", "secret")
	cfg, err := Parse([]byte("server:\n  api_key: ${JT_TEST_KEY}\n  endpoint: ${JT_TEST_UNSET}\n"))
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "${JT_TEST_UNSET}", cfg.Server.Endpoint)
}

func TestPasswordFromEnv(t *testing.T) {
	t.Setenv("EMAIL_PASSWORD", "")
	t.Setenv("EMAIL_APP_PASSWORD", "app")
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "app", cfg.IMAP.Password)
}

func TestParseRejectsBadInput(t *testing.T) {
	_, err := Parse([]byte("log:\n  level: loud\n"))
	assert.ErrorContains(t, err, "log.level")

	_, err = Parse([]byte("imap: [unclosed"))
	assert.ErrorContains(t, err, "parse yaml")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input:
  file: mails.csv
  columns:
    body: BODY
parse:
  workers: 2
  all_senders: true
export:
  xlsx: out.xlsx
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mails.csv", cfg.Input.File)
	assert.Equal(t, "BODY", cfg.Input.Columns.Body)
	assert.Equal(t, "EMAIL_SENDER", cfg.Input.Columns.Sender)
	assert.Equal(t, 2, cfg.Parse.Workers)
	assert.True(t, cfg.Parse.AllSenders)
	assert.Equal(t, "out.xlsx", cfg.Export.XLSX)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestFetchWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	cfg := Default()

	start, end := cfg.FetchWindow(now)
	assert.Equal(t, now.AddDate(0, 0, -7), start)
	assert.Equal(t, now, end)

	cfg.Fetch.Start = "2024-01-01"
	cfg.Fetch.End = "not a date"
	start, end = cfg.FetchWindow(now)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, now, end)
}

func TestNewLoggerFansOut(t *testing.T) {
	var text, js bytes.Buffer
	log := NewLogger(&text, &js, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("parsed", "category", "job_alerts")

	assert.Contains(t, text.String(), "category=job_alerts")
	assert.NotContains(t, text.String(), "hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &rec))
	assert.Equal(t, "parsed", rec["msg"])
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	var stderr bytes.Buffer
	log, closeLog := SetupLogger(&stderr, path, slog.LevelInfo)
	log.Info("hello")
	require.NoError(t, closeLog())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)
	assert.Contains(t, stderr.String(), "msg=hello")
}

func TestSetupLoggerFallsBackToStderr(t *testing.T) {
	var stderr bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "run.log")
	log, closeLog := SetupLogger(&stderr, path, slog.LevelInfo)
	log.Info("still here")
	require.NoError(t, closeLog())

	assert.Contains(t, stderr.String(), "open log file failed")
	assert.Contains(t, stderr.String(), "still here")
	assert.NoFileExists(t, path)
}
