package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/officeconv/typst"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "officeconv.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Paper() != nil {
		t.Error("default config should keep the authored paper size")
	}
	if got := cfg.MaxUploadBytes(); got != 50*1024*1024 {
		t.Errorf("MaxUploadBytes() = %d", got)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
typst_binary: /opt/typst/bin/typst
font_paths:
  - /usr/share/fonts
  - /opt/fonts
paper_size: A4
landscape: true
pdf_standard: a-2b
log_format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Listen != ":9000" || cfg.TypstBinary != "/opt/typst/bin/typst" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.FontPaths) != 2 {
		t.Errorf("FontPaths = %v", cfg.FontPaths)
	}
	if p := cfg.Paper(); p == nil || *p != typst.PaperA4 {
		t.Errorf("Paper() = %v, want A4", p)
	}
	if cfg.Landscape == nil || !*cfg.Landscape {
		t.Error("landscape not loaded")
	}
	// Unset keys keep their defaults.
	if cfg.MaxUploadMB != 50 || cfg.LogLevel != "info" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
	if _, err := Load(writeConfig(t, "listen: [unclosed")); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("bad yaml error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"listen", func(c *Config) { c.Listen = "" }, "listen"},
		{"binary", func(c *Config) { c.TypstBinary = "" }, "typst_binary"},
		{"upload", func(c *Config) { c.MaxUploadMB = 0 }, "max_upload_mb"},
		{"paper", func(c *Config) { c.PaperSize = "b5" }, "paper_size"},
		{"standard", func(c *Config) { c.PDFStandard = "a-1b" }, "pdf_standard"},
		{"level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}
