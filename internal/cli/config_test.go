package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/erwire/pkg/errors"
	"github.com/matzehuels/erwire/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Cache.Backend != backendFile {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, backendFile)
	}
	if cfg.Render.Padding != pipeline.DefaultPadding {
		t.Errorf("Render.Padding = %v, want %v", cfg.Render.Padding, pipeline.DefaultPadding)
	}

	_, err = LoadConfig(path, true)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: got %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[metrics]
hop_height = 12

[render]
formats = ["svg", "dot"]
labels = true
padding = 10

[cache]
backend = "none"

[server]
addr = ":9000"
`)

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Metrics.HopHeight != 12 {
		t.Errorf("Metrics.HopHeight = %v, want 12", cfg.Metrics.HopHeight)
	}
	defaults := DefaultConfig().Metrics
	if cfg.Metrics.HopWindow != defaults.HopWindow {
		t.Errorf("Metrics.HopWindow = %v, want default %v", cfg.Metrics.HopWindow, defaults.HopWindow)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[1] != pipeline.FormatDOT {
		t.Errorf("Render.Formats = %v", cfg.Render.Formats)
	}
	if !cfg.Render.Labels || cfg.Render.Padding != 10 {
		t.Errorf("Render = %+v", cfg.Render)
	}
	if cfg.Render.Splines != pipeline.DefaultSplines {
		t.Errorf("Render.Splines = %q, want default %q", cfg.Render.Splines, pipeline.DefaultSplines)
	}
	if cfg.Cache.Backend != backendNone || cfg.Server.Addr != ":9000" {
		t.Errorf("Cache/Server = %+v / %+v", cfg.Cache, cfg.Server)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "[render\nformats = "},
		{"unknown key", "[render]\nformat = [\"svg\"]\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"bad format", "[render]\nformats = [\"png\"]\n"},
		{"negative padding", "[render]\npadding = -1\n"},
		{"negative metric", "[metrics]\nhop_height = -5\n"},
		{"inverted intersect window", "[metrics]\nintersect_min_t = 0.9\nintersect_max_t = 0.2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), true)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("LoadConfig() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConfigPipelineOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.NoHops = true
	cfg.Render.Labels = true

	opts := cfg.PipelineOptions()
	if !opts.NoHops || !opts.Labels {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
	if opts.Padding != pipeline.DefaultPadding || opts.Splines != pipeline.DefaultSplines {
		t.Errorf("Padding/Splines = %v/%q", opts.Padding, opts.Splines)
	}

	opts.Formats[0] = pipeline.FormatDOT
	if cfg.Render.Formats[0] != pipeline.FormatSVG {
		t.Error("PipelineOptions() should copy Formats")
	}
}
