// Package prefs keeps the console's per-user choices, the colour theme and
// the page open at exit, in a small TOML file.
package prefs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultTheme is used when the file names none.
const DefaultTheme = "Nightfox"

const defaultPath = "~/.config/mpconsole/prefs.toml"

// Prefs is what the console restores on start.
type Prefs struct {
	Theme    string `toml:"theme"`
	LastPage string `toml:"last_page"`
}

// DefaultPath returns the unexpanded default file location.
func DefaultPath() string {
	return defaultPath
}

// Load reads the file at path, or DefaultPath when path is blank.
//
// A missing file yields the defaults and no error. An unreadable or
// malformed file yields the defaults together with the error. When pages
// is non-empty, a LastPage outside it is dropped.
func Load(path string, pages ...string) (Prefs, error) {
	p := Prefs{Theme: DefaultTheme}

	file, err := resolve(path)
	if err != nil {
		return p, err
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read prefs: %w", err)
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return p, fmt.Errorf("parse %s: %w", file, err)
	}
	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		p.Theme = theme
	}
	p.LastPage = strings.TrimSpace(stored.LastPage)
	if len(pages) > 0 && !slices.Contains(pages, p.LastPage) {
		p.LastPage = ""
	}
	return p, nil
}

// Save writes p to path, creating parent directories. The file is replaced
// by rename so a crash never leaves it half written.
func Save(path string, p Prefs) error {
	file, err := resolve(path)
	if err != nil {
		return err
	}
	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("create temp prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace prefs: %w", err)
	}
	return nil
}

// resolve expands a leading ~ and makes path absolute.
func resolve(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = defaultPath
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return filepath.Abs(path)
}
