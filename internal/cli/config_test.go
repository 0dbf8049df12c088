package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/nestmap/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg != nil {
		t.Errorf("loadConfig() = %+v, want nil for missing file", cfg)
	}
}

func TestLoadConfigTopLevel(t *testing.T) {
	path := writeConfig(t, `
width = 1600
height = 900
formats = ["svg", "json"]
include_tests = true
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Width != 1600 || cfg.Height != 900 {
		t.Errorf("viewport = %vx%v, want 1600x900", cfg.Width, cfg.Height)
	}
	if len(cfg.Formats) != 2 || cfg.Formats[1] != "json" {
		t.Errorf("formats = %v, want [svg json]", cfg.Formats)
	}
	if !cfg.IncludeTests {
		t.Error("include_tests not picked up")
	}
}

func TestLoadConfigPartialLayoutMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
[layout]
padding = 8
header_height = 24
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Layout == nil {
		t.Fatal("layout table not loaded")
	}
	if cfg.Layout.Padding != 8 {
		t.Errorf("padding = %v, want 8", cfg.Layout.Padding)
	}
	if cfg.Layout.HeaderHeight != 24 {
		t.Errorf("header height = %v, want 24", cfg.Layout.HeaderHeight)
	}
	// Unset knobs keep engine defaults.
	if cfg.Layout.PrefWidth != 80 {
		t.Errorf("pref width = %v, want default 80", cfg.Layout.PrefWidth)
	}
	if cfg.Layout.MinBoxSize != 4 {
		t.Errorf("min box size = %v, want default 4", cfg.Layout.MinBoxSize)
	}
}

func TestLoadConfigInvalidLayout(t *testing.T) {
	path := writeConfig(t, `
[layout]
min_box_size = -5
`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("expected validation error for negative min_box_size")
	}
}

func TestApplyConfigOptionsWin(t *testing.T) {
	cfg := &fileConfig{Width: 1600, Height: 900, Formats: []string{"png"}}
	opts := pipeline.Options{Width: 800, Formats: []string{"svg"}}

	applyConfig(&opts, cfg)

	if opts.Width != 800 {
		t.Errorf("width = %v, explicit option should win", opts.Width)
	}
	if opts.Height != 900 {
		t.Errorf("height = %v, file value should fill the gap", opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "svg" {
		t.Errorf("formats = %v, explicit option should win", opts.Formats)
	}
}

func TestApplyConfigNil(t *testing.T) {
	opts := pipeline.Options{Width: 800}
	applyConfig(&opts, nil)
	if opts.Width != 800 {
		t.Errorf("applyConfig(nil) mutated options: width = %v", opts.Width)
	}
}
