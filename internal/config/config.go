// Package config loads the YAML configuration shared by the officeconv
// command and its HTTP server.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/officeconv/typst"
)

// Config holds the full officeconv configuration.
type Config struct {
	Listen      string   `yaml:"listen"`
	TypstBinary string   `yaml:"typst_binary"`
	WorkDir     string   `yaml:"work_dir"`
	FontPaths   []string `yaml:"font_paths"`
	PaperSize   string   `yaml:"paper_size"` // empty keeps the authored size
	Landscape   *bool    `yaml:"landscape"`
	PDFStandard string   `yaml:"pdf_standard"` // "" or "a-2b"
	MaxUploadMB int      `yaml:"max_upload_mb"`
	LogLevel    string   `yaml:"log_level"`  // debug | info | warn | error
	LogFormat   string   `yaml:"log_format"` // json | text
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:      ":8090",
		TypstBinary: "typst",
		MaxUploadMB: 50,
		LogLevel:    "info",
		LogFormat:   "text",
	}
}

// Load reads and parses a YAML config file. Returns DefaultConfig merged
// with the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.TypstBinary == "" {
		return fmt.Errorf("typst_binary is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	if c.PaperSize != "" {
		if _, ok := typst.ParsePaperSize(c.PaperSize); !ok {
			return fmt.Errorf("unsupported paper_size %q (use a4, letter, legal, a3 or a5)", c.PaperSize)
		}
	}
	switch c.PDFStandard {
	case "", "a-2b":
	default:
		return fmt.Errorf("unsupported pdf_standard %q (use a-2b)", c.PDFStandard)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log_format %q (use json or text)", c.LogFormat)
	}
	return nil
}

// Paper returns the configured paper size, or nil when none is set.
func (c *Config) Paper() *typst.PaperSize {
	if c.PaperSize == "" {
		return nil
	}
	p, ok := typst.ParsePaperSize(c.PaperSize)
	if !ok {
		return nil
	}
	return &p
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }
