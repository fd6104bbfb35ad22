package texture

import (
	"bytes"
	"image"
	"image/color"
	"path/filepath"
	"sync"
	"testing"

	"bk-asset-codec/internal/model"
	"bk-asset-codec/internal/pixel"
)

func testGrid(t *testing.T) *pixel.Grid {
	t.Helper()
	g := pixel.NewGrid(pixel.FormatRGBA16, 4, 2)
	g.Set(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	g.Set(3, 1, color.NRGBA{B: 0xFF, A: 0xFF})
	return g
}

func TestToNRGBA(t *testing.T) {
	img := ToNRGBA(testGrid(t))
	if img.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("(0,0) = %v", c)
	}
	if c := img.NRGBAAt(3, 1); c != (color.NRGBA{B: 0xFF, A: 0xFF}) {
		t.Fatalf("(3,1) = %v", c)
	}
	if c := img.NRGBAAt(1, 0); c != (color.NRGBA{}) {
		t.Fatalf("(1,0) = %v", c)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	src := ToNRGBA(testGrid(t))
	dir := t.TempDir()
	for _, f := range []ImageFormat{PNG, TGA, WebP} {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(dir, "sub", "tex"+f.Ext())
			if err := Export(path, src, f); err != nil {
				t.Fatal(err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatal(err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v", got.Bounds())
			}
			// Only opaque texels are compared; encoders may drop the
			// colour of fully transparent ones.
			for _, p := range []image.Point{{0, 0}, {3, 1}} {
				if a, b := got.NRGBAAt(p.X, p.Y), src.NRGBAAt(p.X, p.Y); a != b {
					t.Fatalf("%v = %v, want %v", p, a, b)
				}
			}

			g, err := FromImage(got, pixel.FormatRGBA16, nil)
			if err != nil {
				t.Fatal(err)
			}
			want, _ := testGrid(t).Encode()
			enc, _ := g.Encode()
			if !bytes.Equal(enc[:2], want[:2]) || !bytes.Equal(enc[14:], want[14:]) {
				t.Fatalf("repacked % X, want % X", enc, want)
			}
		})
	}
}

func TestParseImageFormat(t *testing.T) {
	if f, err := ParseImageFormat("webp"); err != nil || f != WebP {
		t.Fatalf("webp: %v, %v", f, err)
	}
	if _, err := ParseImageFormat("bmp"); err == nil {
		t.Fatal("bmp accepted")
	}
	if err := Encode(&bytes.Buffer{}, image.NewNRGBA(image.Rect(0, 0, 1, 1)), None); err == nil {
		t.Fatal("encoding format none succeeded")
	}
}

func TestFromImageLimits(t *testing.T) {
	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 256, 1)), pixel.FormatI8, nil); err == nil {
		t.Fatal("256-wide image accepted")
	}
	if _, err := FromImage(image.NewNRGBA(image.Rect(0, 0, 2, 2)), pixel.FormatCI4, nil); err == nil {
		t.Fatal("indexed conversion without a palette accepted")
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.SetNRGBA(2, 2, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	sub := src.SubImage(image.Rect(2, 2, 4, 4))
	g, err := FromImage(sub, pixel.FormatI8, nil)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width != 2 || g.Pix[0] != (pixel.RGBA32{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Fatalf("grid = %+v", g)
	}
}

func TestScale(t *testing.T) {
	src := ToNRGBA(testGrid(t))
	up := Scale(src, 2)
	if up.Bounds().Dx() != 8 || up.Bounds().Dy() != 4 {
		t.Fatalf("up bounds = %v", up.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {1, 1}} {
		if c := up.NRGBAAt(p.X, p.Y); c != (color.NRGBA{R: 0xFF, A: 0xFF}) {
			t.Fatalf("nearest %v = %v", p, c)
		}
	}
	if Scale(src, 1) != src {
		t.Fatal("identity scale allocated")
	}

	solid := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(solid.Pix); i += 4 {
		copy(solid.Pix[i:], []uint8{0x80, 0x40, 0x20, 0xFF})
	}
	down := Scale(solid, 0.5)
	if down.Bounds().Dx() != 4 {
		t.Fatalf("down bounds = %v", down.Bounds())
	}
	c := down.NRGBAAt(1, 1)
	want := color.NRGBA{0x80, 0x40, 0x20, 0xFF}
	for i, pair := range [][2]uint8{{c.R, want.R}, {c.G, want.G}, {c.B, want.B}, {c.A, want.A}} {
		if d := int(pair[0]) - int(pair[1]); d < -1 || d > 1 {
			t.Fatalf("downsampled solid channel %d = %v, want %v", i, c, want)
		}
	}
}

func TestScaleKeepsColourUnderTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 0xFF, A: 0xFF})
	src.SetNRGBA(0, 1, color.NRGBA{R: 0xFF, A: 0xFF})
	// Right column fully transparent black.
	down := Scale(src, 0.5)
	c := down.NRGBAAt(0, 0)
	if c.A == 0 || c.A == 0xFF {
		t.Fatalf("alpha = %#x, want partial coverage", c.A)
	}
	if c.R < 0xFA || c.G != 0 || c.B != 0 {
		t.Fatalf("colour = %v, want red without a dark fringe", c)
	}
}

func TestUnpremultiplyCapsRinging(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	copy(src.Pix, []uint8{0x90, 0x10, 0x00, 0x80, 0x40, 0x00, 0x00, 0x00})
	got := unpremultiply(src)
	if c := got.NRGBAAt(0, 0); c.R != 0xFF || c.G != 0x20 || c.A != 0x80 {
		t.Fatalf("ringing pixel = %v", c)
	}
	if c := got.NRGBAAt(1, 0); c != (color.NRGBA{}) {
		t.Fatalf("transparent pixel = %v", c)
	}
}

func TestCacheSharesIdenticalTextures(t *testing.T) {
	g := testGrid(t)
	tl := &model.TextureList{}
	if _, err := tl.AddTexture(g); err != nil {
		t.Fatal(err)
	}
	if _, err := tl.AddTexture(g); err != nil {
		t.Fatal(err)
	}
	if Key(tl, 0) != Key(tl, 1) {
		t.Fatal("identical textures hash differently")
	}

	c := NewCache()
	var wg sync.WaitGroup
	imgs := make([]*image.NRGBA, 8)
	for i := range imgs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := c.Resolve(tl, i%2)
			if err != nil {
				t.Error(err)
			}
			imgs[i] = img
		}()
	}
	wg.Wait()
	if c.Len() != 1 {
		t.Fatalf("cache holds %d entries, want 1", c.Len())
	}
	for _, img := range imgs[1:] {
		if img != imgs[0] {
			t.Fatal("cache returned distinct images for one key")
		}
	}

	if _, err := c.Resolve(tl, 5); err == nil {
		t.Fatal("out-of-range texture resolved")
	}
}
