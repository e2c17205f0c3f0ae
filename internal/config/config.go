package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cast"

	"github.com/zhaohua/mpconsole/internal/sizes"
)

// Config holds the console settings after file and environment are merged.
type Config struct {
	APIBase     string
	PollSeconds int
	LogFile     string
	LogLevel    string
}

// Environment overrides, applied after the config file.
const (
	EnvAPIBase     = "MPCONSOLE_API_BASE"
	EnvPollSeconds = "MPCONSOLE_POLL_SECONDS"
	EnvLogLevel    = "MPCONSOLE_LOG_LEVEL"
	EnvLogFile     = "MPCONSOLE_LOG_FILE"
)

const (
	defaultConfigPath  = "~/.config/mpconsole/config.toml"
	defaultLogFile     = "~/.local/state/mpconsole/mpconsole.log"
	defaultLogLevel    = "info"
	defaultPollSeconds = 5
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the TOML config at path (default location when empty), falling
// back to defaults when the file is missing, then applies environment
// overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		APIBase:     sizes.DefaultBaseURL,
		PollSeconds: defaultPollSeconds,
		LogFile:     defaultLogFile,
		LogLevel:    defaultLogLevel,
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := cfg.readTOML(file); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	cfg.LogFile = mustExpand(cfg.LogFile)
	return cfg, nil
}

func (c *Config) readTOML(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase     string `toml:"api_base"`
		PollSeconds int    `toml:"poll_seconds"`
		LogFile     string `toml:"log_file"`
		LogLevel    string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBase); v != "" {
		c.APIBase = v
	}
	if raw.PollSeconds > 0 {
		c.PollSeconds = raw.PollSeconds
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v, ok := lookupEnv(EnvAPIBase); ok {
		c.APIBase = v
	}
	if v, ok := lookupEnv(EnvPollSeconds); ok {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvPollSeconds, err)
		}
		if n <= 0 {
			return fmt.Errorf("parse %s: must be positive, got %d", EnvPollSeconds, n)
		}
		c.PollSeconds = n
	}
	if v, ok := lookupEnv(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv(EnvLogFile); ok {
		// an explicitly empty value disables the log file
		c.LogFile = strings.TrimSpace(v)
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	if strings.TrimSpace(path) == "" {
		return ""
	}
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
