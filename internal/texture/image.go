package texture

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"bk-asset-codec/internal/pixel"
)

// ToNRGBA copies a decoded grid into a standard image.
func ToNRGBA(g *pixel.Grid) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, g.Width, g.Height))
	for i, p := range g.Pix {
		copy(dst.Pix[4*i:], []uint8{p.R, p.G, p.B, p.A})
	}
	return dst
}

// FromImage packs img into a grid of format f. Indexed formats map every
// pixel to the nearest entry of pal.
func FromImage(img image.Image, f pixel.Format, pal pixel.Palette) (*pixel.Grid, error) {
	b := img.Bounds()
	if b.Dx() > 0xFF || b.Dy() > 0xFF {
		return nil, fmt.Errorf("texture: %dx%d image exceeds 255x255", b.Dx(), b.Dy())
	}
	src := toNRGBA(img)
	g := pixel.NewGrid(pixel.FormatRGBA32, b.Dx(), b.Dy())
	for i := range g.Pix {
		o := 4 * i
		g.Pix[i] = pixel.RGBA32{R: src.Pix[o], G: src.Pix[o+1], B: src.Pix[o+2], A: src.Pix[o+3]}
	}
	if f == pixel.FormatRGBA32 {
		return g, nil
	}
	out, err := g.Convert(f, pal)
	if err != nil {
		return nil, fmt.Errorf("texture: convert to %s: %w", f, err)
	}
	return out, nil
}

// toNRGBA converts any image to a zero-origin NRGBA.
func toNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) && n.Stride == 4*b.Dx() {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	switch src.(type) {
	case *image.YCbCr, *image.Gray:
		// No alpha channel in the source.
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	default:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				i := dst.PixOffset(x, y)
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2], dst.Pix[i+3] = c.R, c.G, c.B, c.A
			}
		}
	}
	return dst
}
