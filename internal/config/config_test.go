package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhaohua/mpconsole/internal/sizes"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIBase, EnvPollSeconds, EnvLogLevel, EnvLogFile} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != sizes.DefaultBaseURL {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, sizes.DefaultBaseURL)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("LogLevel = %q, want info", cfg.LogLevel)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "  http://10.0.0.5:9000/sizes/  "
poll_seconds = 30
log_file = "  ~/logs/console.log  "
log_level = "DEBUG"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "http://10.0.0.5:9000/sizes/" {
		t.Fatalf("APIBase = %q, want trimmed value", cfg.APIBase)
	}
	if cfg.PollSeconds != 30 {
		t.Fatalf("PollSeconds = %d, want 30", cfg.PollSeconds)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFile != filepath.Join(home, "logs", "console.log") {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_base = "   "
poll_seconds = 0
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != sizes.DefaultBaseURL {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, sizes.DefaultBaseURL)
	}
	if cfg.PollSeconds != defaultPollSeconds {
		t.Fatalf("PollSeconds = %d, want %d", cfg.PollSeconds, defaultPollSeconds)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_base = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_seconds = 30\nlog_level = \"warn\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(EnvAPIBase, "backend:8000/sizes/")
	t.Setenv(EnvPollSeconds, " 12 ")
	t.Setenv(EnvLogLevel, "Error")
	t.Setenv(EnvLogFile, "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != "backend:8000/sizes/" {
		t.Fatalf("APIBase = %q, want env value", cfg.APIBase)
	}
	if cfg.PollSeconds != 12 {
		t.Fatalf("PollSeconds = %d, want 12", cfg.PollSeconds)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("LogLevel = %q, want error", cfg.LogLevel)
	}
	if cfg.LogFile != "" {
		t.Fatalf("LogFile = %q, want empty (disabled)", cfg.LogFile)
	}
}

func TestLoad_InvalidEnvPollFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())

	for _, v := range []string{"soon", "-3"} {
		t.Setenv(EnvPollSeconds, v)
		_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
		if err == nil || !strings.Contains(err.Error(), EnvPollSeconds) {
			t.Fatalf("Load with %s=%q error = %v, want parse error", EnvPollSeconds, v, err)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("MPCONSOLE_POLL_SECONDS=9\nMPCONSOLE_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// already set variables win over the file
	t.Setenv(EnvLogLevel, "warn")

	if err := LoadEnvFile(envFile); err != nil {
		t.Fatalf("LoadEnvFile returned error: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv(EnvPollSeconds) })

	if got := os.Getenv(EnvPollSeconds); got != "9" {
		t.Fatalf("%s = %q, want 9", EnvPollSeconds, got)
	}
	if got := os.Getenv(EnvLogLevel); got != "warn" {
		t.Fatalf("%s = %q, want warn", EnvLogLevel, got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadEnvFile on missing file returned error: %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Fatalf("LoadEnvFile(\"\") returned error: %v", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
