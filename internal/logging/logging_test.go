package logging

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/zhaohua/mpconsole/internal/logtail"
)

func TestNew_EmptyPathIsNop(t *testing.T) {
	logger, err := New("", "debug")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Core().Enabled(zap.ErrorLevel) {
		t.Fatalf("nop logger reports enabled levels")
	}
}

func TestNew_WritesJSONLinesReadableByLogtail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "console.log")

	logger, err := New(path, "warn")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("dropped below level")
	logger.Warn("poll failed", zap.String("endpoint", "api/watches"), zap.Int("failures", 2))
	_ = logger.Sync()

	items, err := logtail.ReadObjects(path, 10)
	if err != nil {
		t.Fatalf("ReadObjects returned error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("log objects = %d, want 1", len(items))
	}
	for key, want := range map[string]string{"level": "warn", "msg": "poll failed", "endpoint": "api/watches", "failures": "2"} {
		v, ok := items[0].Get(key)
		if !ok || v.Content() != want {
			t.Fatalf("%s = %q, want %q", key, v.Content(), want)
		}
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "x.log"), "loud"); err == nil {
		t.Fatalf("New accepted an invalid level")
	}
}
