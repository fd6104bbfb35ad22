package pixel

import (
	"fmt"
	"image"
	"image/color"
)

// Grid is a decoded width×height texture. Pix holds every pixel expanded to
// RGBA32 in row-major order. Indexed grids also keep their palette and the
// raw indices, so re-encoding an untouched indexed grid is exact.
type Grid struct {
	Format  Format
	Width   int
	Height  int
	Palette Palette
	Index   []uint8
	Pix     []RGBA32
}

// NewGrid allocates a blank grid. Indexed formats start with an all-zero
// palette of the format's size.
func NewGrid(f Format, width, height int) *Grid {
	g := &Grid{
		Format: f,
		Width:  width,
		Height: height,
		Pix:    make([]RGBA32, width*height),
	}
	if f.Indexed() {
		g.Palette = make(Palette, f.PaletteLen())
		g.Index = make([]uint8, width*height)
	}
	return g
}

// DecodeGrid builds a grid from texture data in the given format. For the
// indexed formats data starts with the RGBA16 palette, followed by the
// indices.
func DecodeGrid(f Format, width, height int, data []byte) (*Grid, error) {
	if !f.Known() {
		return nil, fmt.Errorf("pixel: decode grid: %s: %w", f, ErrUnknownFormat)
	}
	n := width * height
	need := f.DataLen(width, height)
	if len(data) < need {
		return nil, fmt.Errorf("pixel: %s %dx%d needs %d bytes, have %d: %w", f, width, height, need, len(data), ErrShortData)
	}

	g := &Grid{Format: f, Width: width, Height: height}
	body := data[:need]
	if f.Indexed() {
		pal, err := DecodePalette(body, f.PaletteLen())
		if err != nil {
			return nil, err
		}
		g.Palette = pal
		body = body[2*len(pal):]
		g.Index = make([]uint8, 0, n)
		if f == FormatCI4 {
			for u := range DecodeCI4(body) {
				g.Index = append(g.Index, uint8(u))
			}
		} else {
			for u := range DecodeCI8(body) {
				g.Index = append(g.Index, uint8(u))
			}
		}
		g.Index = g.Index[:n]
		g.Pix = make([]RGBA32, n)
		for i, v := range g.Index {
			g.Pix[i] = pal.At(int(v))
		}
		return g, nil
	}

	px, err := ToRGBA32(body, f, nil)
	if err != nil {
		return nil, err
	}
	g.Pix = px[:n]
	return g, nil
}

// Encode packs the grid in its own format. Indexed grids are emitted as
// palette followed by indices.
func (g *Grid) Encode() ([]byte, error) {
	if !g.Format.Known() {
		return nil, fmt.Errorf("pixel: encode grid: %s: %w", g.Format, ErrUnknownFormat)
	}
	if g.Format.Indexed() {
		if len(g.Palette) != g.Format.PaletteLen() {
			return nil, fmt.Errorf("pixel: %s grid has %d palette entries, want %d: %w",
				g.Format, len(g.Palette), g.Format.PaletteLen(), ErrNoPalette)
		}
		return append(g.Palette.Bytes(), packIndices(g.Index, g.Format)...), nil
	}
	return FromRGBA32(g.Pix, g.Format, nil)
}

// Convert returns a copy of the grid re-encoded in another format. An
// indexed target needs pal; an indexed source converted to another indexed
// format reuses its own palette when pal is nil.
func (g *Grid) Convert(f Format, pal Palette) (*Grid, error) {
	if !f.Known() {
		return nil, fmt.Errorf("pixel: convert grid to %s: %w", f, ErrUnknownFormat)
	}
	if f.Indexed() {
		if pal == nil {
			pal = g.Palette
		}
		if len(pal) == 0 {
			return nil, ErrNoPalette
		}
		pal = fitPalette(pal, f.PaletteLen())
	}
	data, err := FromRGBA32(g.Pix, f, pal)
	if err != nil {
		return nil, err
	}
	if f.Indexed() {
		data = append(pal.Bytes(), data...)
	}
	return DecodeGrid(f, g.Width, g.Height, data)
}

func fitPalette(p Palette, n int) Palette {
	out := make(Palette, n)
	copy(out, p)
	return out
}

func (g *Grid) ColorModel() color.Model { return RGBA32Model }

func (g *Grid) Bounds() image.Rectangle { return image.Rect(0, 0, g.Width, g.Height) }

func (g *Grid) At(x, y int) color.Color { return g.RGBA32At(x, y) }

// RGBA32At returns the pixel at (x, y), or transparent black outside the grid.
func (g *Grid) RGBA32At(x, y int) RGBA32 {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return RGBA32{}
	}
	return g.Pix[y*g.Width+x]
}

// Set stores c at (x, y). On an indexed grid the nearest palette entry is
// written and Pix reflects the palette colour actually stored.
func (g *Grid) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return
	}
	p := RGBA32Model.Convert(c).(RGBA32)
	i := y*g.Width + x
	if g.Format.Indexed() {
		idx := g.Palette.Nearest(p)
		g.Index[i] = uint8(idx)
		g.Pix[i] = g.Palette.At(idx)
		return
	}
	g.Pix[i] = p
}

// EncodeGrid packs g in its own format.
func EncodeGrid(g *Grid) ([]byte, error) { return g.Encode() }
