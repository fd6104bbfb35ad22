package texture

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Scale resizes img by factor. Enlarging keeps hard pixel edges with a
// nearest-neighbour filter; shrinking uses premultiplied CatmullRom so
// transparent texels do not bleed dark fringes into their neighbours.
func Scale(img *image.NRGBA, factor float64) *image.NRGBA {
	b := img.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*factor)))
	h := max(1, int(math.Round(float64(b.Dy())*factor)))
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	if factor >= 1 {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}
	return downsample(img, w, h)
}

func downsample(img *image.NRGBA, w, h int) *image.NRGBA {
	premul := image.NewRGBA(img.Bounds())
	draw.Draw(premul, premul.Bounds(), img, img.Bounds().Min, draw.Src)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), premul, premul.Bounds(), draw.Src, nil)
	return unpremultiply(scaled)
}

// unpremultiply converts back to straight alpha. CatmullRom rings past the
// alpha near hard edges, so each channel is capped at it first.
func unpremultiply(src *image.RGBA) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	for i := 0; i+3 < len(src.Pix); i += 4 {
		a := uint32(src.Pix[i+3])
		dst.Pix[i+3] = uint8(a)
		if a == 0 {
			continue
		}
		for c := range 3 {
			v := min(uint32(src.Pix[i+c]), a)
			dst.Pix[i+c] = uint8((v*0xFF + a/2) / a)
		}
	}
	return dst
}
