package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/webp"
)

// Load reads a PNG, TGA or WebP file and returns an NRGBA image.
func Load(path string) (*image.NRGBA, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", path, err)
	}
	img, err := Decode(raw, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("texture: %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes raw image bytes. ext selects the decoder; TGA has no magic
// number so it cannot be sniffed.
func Decode(raw []byte, ext string) (*image.NRGBA, error) {
	var (
		img image.Image
		err error
	)
	switch strings.ToLower(ext) {
	case ".png":
		img, err = png.Decode(bytes.NewReader(raw))
	case ".tga":
		img, err = tga.Decode(bytes.NewReader(raw))
	case ".webp":
		img, err = webp.Decode(bytes.NewReader(raw))
	default:
		return nil, fmt.Errorf("unknown image extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ext, err)
	}
	return toNRGBA(img), nil
}
