package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenTraceLab/OpenTraceSchem/pkg/description"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ots.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got, want := cfg.LayoutOptions(), description.DefaultLayoutOptions(); got != want {
		t.Errorf("LayoutOptions() = %+v, want %+v", got, want)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
grid_size: 5
components:
  - ./components
  - s3://bucket/components
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.GridSize != 5 {
		t.Errorf("GridSize = %g, want 5", cfg.GridSize)
	}
	if !cfg.AlignMiddle {
		t.Error("AlignMiddle should keep its default")
	}
	if len(cfg.Components) != 2 {
		t.Errorf("Components = %v", cfg.Components)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want default", cfg.Server.Addr)
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("Level() = %v, %v", level, err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"zero grid":     "grid_size: 0\n",
		"bad log level": "log_level: loud\n",
		"not yaml":      "grid_size: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected an error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
