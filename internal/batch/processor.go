package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"

	"bk-asset-codec/internal/config"
	"bk-asset-codec/internal/model"
	"bk-asset-codec/internal/rarezip"
	"bk-asset-codec/internal/scene"
	"bk-asset-codec/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	InputDir      string
	OutputDir     string
	Compressed    bool
	TextureFormat texture.ImageFormat
	TextureScale  float64
	ExportGLB     bool
	Workers       int

	Logger   *slog.Logger
	Textures *texture.Cache
	// ProgressEvery is the progress log interval; zero means two seconds.
	ProgressEvery time.Duration
}

// NewConfig builds a run configuration from resolved settings.
func NewConfig(c config.Config, log *slog.Logger) Config {
	return Config{
		InputDir:      c.InputDir,
		OutputDir:     c.OutputDir,
		Compressed:    c.Compressed,
		TextureFormat: c.ImageFormat(),
		TextureScale:  c.TextureScale,
		ExportGLB:     c.ExportGLB,
		Workers:       c.Workers,
		Logger:        log,
		Textures:      texture.NewCache(),
	}
}

// Result holds the outcome of processing one file.
type Result struct {
	File      string   `json:"file"`
	Size      int      `json:"size"`
	Digest    string   `json:"digest,omitempty"`
	Sections  []string `json:"sections,omitempty"`
	TailBytes int      `json:"tail_bytes"`
	Textures  int      `json:"textures"`
	Exported  []string `json:"exported,omitempty"`
	RoundTrip bool     `json:"round_trip"`
	Error     string   `json:"error,omitempty"`
}

// Scan lists every regular file under dir, relative to it, in sorted order.
func Scan(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("batch: scan %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all files using a worker pool. Files not yet started when
// ctx is cancelled get the context error as their result.
func Run(ctx context.Context, cfg Config, files []string) []Result {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Textures == nil {
		cfg.Textures = texture.NewCache()
	}
	workers := max(cfg.Workers, 1)
	every := cfg.ProgressEvery
	if every <= 0 {
		every = 2 * time.Second
	}

	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress", "done", p, "total", total, "files_per_sec", rate)
				}
			}
		}
	}()

	// Worker pool
	work := make(chan int, workers*2)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = processFile(cfg, log, files[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	sent := 0
send:
	for ; sent < total; sent++ {
		select {
		case work <- sent:
		case <-ctx.Done():
			break send
		}
	}
	close(work)
	wg.Wait()
	close(done)

	for i := sent; i < total; i++ {
		results[i] = Result{File: files[i], Error: ctx.Err().Error()}
	}
	ok, failed := Summarize(results)
	log.Info("batch finished", "ok", ok, "failed", failed, "textures_cached", cfg.Textures.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

// Summarize counts successful and failed results.
func Summarize(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Error == "" {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

func processFile(cfg Config, log *slog.Logger, rel string) Result {
	res := Result{File: rel}
	if err := verify(cfg, log.With("file", rel), rel, &res); err != nil {
		res.Error = err.Error()
		log.Warn("file failed", "file", rel, "err", err)
	}
	return res
}

func verify(cfg Config, log *slog.Logger, rel string, res *Result) error {
	raw, err := os.ReadFile(filepath.Join(cfg.InputDir, rel))
	if err != nil {
		return err
	}
	res.Size = len(raw)
	res.Digest = fmt.Sprintf("%016x", xxhash.Sum64(raw))

	data := raw
	if cfg.Compressed {
		if data, err = rarezip.Decompress(raw); err != nil {
			return err
		}
	}

	m, err := model.Decoder{Logger: log}.Decode(data)
	if err != nil {
		return err
	}
	for _, s := range m.Sections() {
		res.Sections = append(res.Sections, s.Kind().String())
	}
	res.TailBytes = len(m.Tail)
	if m.Textures != nil {
		res.Textures = len(m.Textures.Textures)
	}

	enc := m.Encode()
	if i := firstDiff(enc, data); i >= 0 {
		return fmt.Errorf("round trip differs at 0x%X (%d bytes in, %d out)", i, len(data), len(enc))
	}
	if cfg.Compressed {
		z, err := rarezip.Compress(enc, 0)
		if err != nil {
			return err
		}
		back, err := rarezip.Decompress(z)
		if err != nil {
			return err
		}
		if !bytes.Equal(back, enc) {
			return errors.New("recompressed model does not inflate to the encoded bytes")
		}
	}
	res.RoundTrip = true

	base := filepath.Join(cfg.OutputDir, strings.TrimSuffix(rel, filepath.Ext(rel)))
	if cfg.TextureFormat != "" && cfg.TextureFormat != texture.None && m.Textures != nil {
		if err := exportTextures(cfg, log, m.Textures, base, res); err != nil {
			return err
		}
	}
	if cfg.ExportGLB {
		if err := exportGLB(m, base, res); err != nil {
			return err
		}
	}
	return nil
}

func exportTextures(cfg Config, log *slog.Logger, tl *model.TextureList, base string, res *Result) error {
	for i, h := range tl.Textures {
		if !h.Format.Known() {
			log.Debug("skipping texture with unknown format", "texture", i, "format", h.Format)
		}
	}
	paths, err := texture.ExportList(cfg.Textures, tl, base, cfg.TextureFormat, cfg.TextureScale)
	res.Exported = append(res.Exported, paths...)
	return err
}

func exportGLB(m *model.Model, base string, res *Result) error {
	path := base + ".glb"
	err := scene.Export(m, path)
	if errors.Is(err, scene.ErrNoGeometry) {
		return nil
	}
	if err != nil {
		return err
	}
	res.Exported = append(res.Exported, path)
	return nil
}

// firstDiff returns the first index where a and b differ, or -1.
func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	if len(a) != len(b) {
		return n
	}
	return -1
}
