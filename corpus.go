package bkasset

import (
	"context"
	"log/slog"

	"bk-asset-codec/internal/batch"
	"bk-asset-codec/internal/config"
	"bk-asset-codec/internal/scene"
	"bk-asset-codec/internal/texture"
)

type (
	Config   = config.Config
	Flags    = config.Flags
	Manifest = batch.Manifest
	Result   = batch.Result
)

// ErrNoGeometry is returned by ExportGLB for models with nothing to draw.
var ErrNoGeometry = scene.ErrNoGeometry

// LoadConfig reads a YAML batch configuration.
func LoadConfig(path string) (Config, error) { return config.Load(path) }

// VerifyCorpus checks that every file under the configured input directory
// decodes and re-encodes byte for byte, exporting textures and GLB scenes as
// configured. Settings come from the YAML file at path, if path is not
// empty, overridden by flags. The manifest is written to the output
// directory and returned. log may be nil.
func VerifyCorpus(ctx context.Context, path string, flags Flags, log *slog.Logger) (Manifest, error) {
	var cfg Config
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return Manifest{}, err
		}
	}
	if err := cfg.Resolve(flags); err != nil {
		return Manifest{}, err
	}
	return batch.Verify(ctx, cfg, log)
}

// ExportTextures writes m's textures to base_texNN.ext in format (png, webp,
// tga or none), scaled by scale, and returns the paths written.
func ExportTextures(m *Model, base, format string, scale float64) ([]string, error) {
	f, err := texture.ParseImageFormat(format)
	if err != nil {
		return nil, err
	}
	if m.Textures == nil || f == texture.None {
		return nil, nil
	}
	return texture.ExportList(nil, m.Textures, base, f, scale)
}

// ExportGLB writes m's vertices, collision and bones to path as binary glTF.
func ExportGLB(m *Model, path string) error { return scene.Export(m, path) }
