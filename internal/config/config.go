package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"bk-asset-codec/internal/texture"
)

// Config holds the settings for a batch run.
type Config struct {
	// Paths
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// Export settings
	TextureFormat string  `yaml:"texture_format"`
	TextureScale  float64 `yaml:"texture_scale"`
	ExportGLB     bool    `yaml:"export_glb"`

	// Compressed marks inputs as 11 72 wrapped; they are unwrapped before
	// decoding and the verifier also checks the re-compressed form inflates
	// back to the same bytes.
	Compressed bool `yaml:"compressed"`

	Workers int `yaml:"workers"`
}

// Load reads a YAML config file. Fields not set in the file keep their zero
// values; unknown keys are an error.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds command-line values that override the config file.
type Flags struct {
	InputDir  string
	OutputDir string
	Workers   int
}

// Resolve applies flag overrides, fills defaults and validates the result.
func (c *Config) Resolve(flags Flags) error {
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.InputDir == "" {
		return fmt.Errorf("config: input_dir is required")
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.InputDir, "out")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.InputDir, c.OutputDir)
	}

	if c.TextureFormat == "" {
		c.TextureFormat = string(texture.None)
	}
	if _, err := texture.ParseImageFormat(c.TextureFormat); err != nil {
		return fmt.Errorf("config: texture_format: %w", err)
	}
	if c.TextureScale <= 0 {
		c.TextureScale = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// ImageFormat returns the resolved texture export format.
func (c *Config) ImageFormat() texture.ImageFormat {
	f, _ := texture.ParseImageFormat(c.TextureFormat)
	return f
}
