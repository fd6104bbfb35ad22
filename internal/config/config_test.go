package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"bk-asset-codec/internal/texture"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndResolve(t *testing.T) {
	path := writeConfig(t, `
input_dir: /assets
output_dir: exported
texture_format: webp
texture_scale: 2
export_glb: true
compressed: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Resolve(Flags{Workers: 3}); err != nil {
		t.Fatal(err)
	}
	want := Config{
		InputDir:      "/assets",
		OutputDir:     filepath.Join("/assets", "exported"),
		TextureFormat: "webp",
		TextureScale:  2,
		ExportGLB:     true,
		Compressed:    true,
		Workers:       3,
	}
	if cfg != want {
		t.Fatalf("cfg = %+v\nwant %+v", cfg, want)
	}
	if cfg.ImageFormat() != texture.WebP {
		t.Fatalf("image format = %q", cfg.ImageFormat())
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Resolve(Flags{InputDir: "/in"}); err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != filepath.Join("/in", "out") || cfg.TextureFormat != "none" ||
		cfg.TextureScale != 1 || cfg.Workers != runtime.NumCPU() {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(writeConfig(t, "input_dirr: /x\n")); err == nil {
		t.Fatal("unknown key accepted")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
	cfg := Config{InputDir: "/x", TextureFormat: "gif"}
	if err := cfg.Resolve(Flags{}); err == nil {
		t.Fatal("bad texture format accepted")
	}
	if err := (&Config{}).Resolve(Flags{}); err == nil {
		t.Fatal("missing input_dir accepted")
	}
}
