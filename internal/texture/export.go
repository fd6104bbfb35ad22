package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"bk-asset-codec/internal/model"
)

// ImageFormat is an on-disk image encoding for exported textures.
type ImageFormat string

const (
	PNG  ImageFormat = "png"
	WebP ImageFormat = "webp"
	TGA  ImageFormat = "tga"
	None ImageFormat = "none"
)

// ParseImageFormat validates a configured format name.
func ParseImageFormat(s string) (ImageFormat, error) {
	switch f := ImageFormat(s); f {
	case PNG, WebP, TGA, None:
		return f, nil
	}
	return "", fmt.Errorf("texture: unknown image format %q", s)
}

// Ext returns the file extension, dot included.
func (f ImageFormat) Ext() string { return "." + string(f) }

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f ImageFormat) error {
	var err error
	switch f {
	case PNG:
		err = png.Encode(w, img)
	case WebP:
		err = nativewebp.Encode(w, img, nil)
	case TGA:
		err = tga.Encode(w, img)
	default:
		return fmt.Errorf("texture: cannot encode %q", f)
	}
	if err != nil {
		return fmt.Errorf("texture: encode %s: %w", f, err)
	}
	return nil
}

// Export writes img to path, creating parent directories.
func Export(path string, img image.Image, f ImageFormat) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	if err := Encode(out, img, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// ExportList writes every texture of tl with a known format to
// base_texNN.ext, scaled by scale, and returns the paths written. Decoded
// images come from c, which may be nil.
func ExportList(c *Cache, tl *model.TextureList, base string, f ImageFormat, scale float64) ([]string, error) {
	if c == nil {
		c = NewCache()
	}
	var paths []string
	for i, h := range tl.Textures {
		if !h.Format.Known() {
			continue
		}
		img, err := c.Resolve(tl, i)
		if err != nil {
			return paths, err
		}
		if scale > 0 && scale != 1 {
			img = Scale(img, scale)
		}
		path := fmt.Sprintf("%s_tex%02d%s", base, i, f.Ext())
		if err := Export(path, img, f); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
