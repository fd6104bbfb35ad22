package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"bk-asset-codec/internal/config"
)

// ManifestName is the file Verify writes into the output directory.
const ManifestName = "manifest.json"

// Verify runs a resolved configuration end to end: it scans the input
// directory, processes every file and writes the manifest to the output
// directory. When the output directory lies inside the input directory its
// contents are not treated as inputs.
func Verify(ctx context.Context, c config.Config, log *slog.Logger) (Manifest, error) {
	files, err := Scan(c.InputDir)
	if err != nil {
		return Manifest{}, err
	}
	files = excludeDir(files, c.InputDir, c.OutputDir)
	if log != nil {
		log.Info("batch starting", "input", c.InputDir, "output", c.OutputDir,
			"files", len(files), "workers", c.Workers)
	}

	results := Run(ctx, NewConfig(c, log), files)

	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return Manifest{}, fmt.Errorf("batch: %w", err)
	}
	if err := WriteManifest(filepath.Join(c.OutputDir, ManifestName), results); err != nil {
		return Manifest{}, err
	}
	return NewManifest(results), nil
}

// excludeDir drops the files under dir, given relative to root.
func excludeDir(files []string, root, dir string) []string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return files
	}
	prefix := rel + string(filepath.Separator)
	kept := files[:0]
	for _, f := range files {
		if !strings.HasPrefix(f, prefix) {
			kept = append(kept, f)
		}
	}
	return kept
}
