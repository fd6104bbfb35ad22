package pixel

import (
	"fmt"
	"slices"
)

// Palette is a colour lookup table for the indexed formats. Entries are
// stored as RGBA16, which is how they sit in a texture blob.
type Palette []RGBA16

// DecodePalette reads n RGBA16 entries from b.
func DecodePalette(b []byte, n int) (Palette, error) {
	if len(b) < 2*n {
		return nil, fmt.Errorf("pixel: palette of %d entries needs %d bytes, have %d: %w", n, 2*n, len(b), ErrShortData)
	}
	return Palette(slices.Collect(DecodeRGBA16(b[:2*n]))), nil
}

// Bytes encodes the palette back to its RGBA16 byte form.
func (p Palette) Bytes() []byte {
	return EncodeRGBA16(p)
}

// At returns entry i expanded to RGBA32. Indices past the end of the palette
// read as transparent black.
func (p Palette) At(i int) RGBA32 {
	if i < 0 || i >= len(p) {
		return RGBA32{}
	}
	return p[i].RGBA32()
}

// Nearest returns the index of the entry closest to c by squared distance
// over all four channels. Ties go to the lowest index.
func (p Palette) Nearest(c RGBA32) int {
	best, bestDist := 0, -1
	for i := range p {
		e := p.At(i)
		dr := int(e.R) - int(c.R)
		dg := int(e.G) - int(c.G)
		db := int(e.B) - int(c.B)
		da := int(e.A) - int(c.A)
		d := dr*dr + dg*dg + db*db + da*da
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return best
}

// ToRGBA32 decodes a packed stream of the given format to RGBA32 colours.
// Indexed formats resolve through pal.
func ToRGBA32(data []byte, f Format, pal Palette) ([]RGBA32, error) {
	var out []RGBA32
	switch f {
	case FormatCI4:
		if pal == nil {
			return nil, ErrNoPalette
		}
		for u := range DecodeCI4(data) {
			out = append(out, u.Color(pal))
		}
	case FormatCI8:
		if pal == nil {
			return nil, ErrNoPalette
		}
		for u := range DecodeCI8(data) {
			out = append(out, u.Color(pal))
		}
	case FormatI4:
		for u := range DecodeI4(data) {
			out = append(out, u.RGBA32())
		}
	case FormatI8:
		for u := range DecodeI8(data) {
			out = append(out, u.RGBA32())
		}
	case FormatIA4:
		for u := range DecodeIA4(data) {
			out = append(out, u.RGBA32())
		}
	case FormatIA8:
		for u := range DecodeIA8(data) {
			out = append(out, u.RGBA32())
		}
	case FormatRGBA16:
		for u := range DecodeRGBA16(data) {
			out = append(out, u.RGBA32())
		}
	case FormatRGBA32:
		out = slices.Collect(DecodeRGBA32(data))
	default:
		return nil, fmt.Errorf("pixel: decode %s: %w", f, ErrUnknownFormat)
	}
	return out, nil
}

// FromRGBA32 packs colours into the given format. Indexed formats pick the
// nearest entry among the first f.PaletteLen() entries of pal, the only
// ones the index width can address.
func FromRGBA32(px []RGBA32, f Format, pal Palette) ([]byte, error) {
	switch f {
	case FormatCI4, FormatCI8:
		if len(pal) == 0 {
			return nil, ErrNoPalette
		}
		if n := f.PaletteLen(); len(pal) > n {
			pal = pal[:n]
		}
		idx := make([]uint8, len(px))
		for i, c := range px {
			idx[i] = uint8(pal.Nearest(c))
		}
		return packIndices(idx, f), nil
	case FormatI4:
		return EncodeI4(mapUnits(px, I4FromRGBA32)), nil
	case FormatI8:
		return EncodeI8(mapUnits(px, I8FromRGBA32)), nil
	case FormatIA4:
		return EncodeIA4(mapUnits(px, IA4FromRGBA32)), nil
	case FormatIA8:
		return EncodeIA8(mapUnits(px, IA8FromRGBA32)), nil
	case FormatRGBA16:
		return EncodeRGBA16(mapUnits(px, RGBA16FromRGBA32)), nil
	case FormatRGBA32:
		return EncodeRGBA32(px), nil
	}
	return nil, fmt.Errorf("pixel: encode %s: %w", f, ErrUnknownFormat)
}

// Convert re-encodes a packed stream from one format to another through
// RGBA32. Conversions that narrow a channel are lossy; the result is
// deterministic and uses the same expansion rules as the unit conversions.
// pal is consulted for an indexed source or target and may be nil otherwise.
func Convert(data []byte, from, to Format, pal Palette) ([]byte, error) {
	if from == to {
		return slices.Clone(data), nil
	}
	px, err := ToRGBA32(data, from, pal)
	if err != nil {
		return nil, err
	}
	return FromRGBA32(px, to, pal)
}

func mapUnits[T any](px []RGBA32, fn func(RGBA32) T) []T {
	out := make([]T, len(px))
	for i, c := range px {
		out[i] = fn(c)
	}
	return out
}

func packIndices(idx []uint8, f Format) []byte {
	if f == FormatCI4 {
		return EncodeCI4(mapIndex(idx, func(v uint8) CI4 { return CI4(v) }))
	}
	return EncodeCI8(mapIndex(idx, func(v uint8) CI8 { return CI8(v) }))
}

func mapIndex[T any](idx []uint8, fn func(uint8) T) []T {
	out := make([]T, len(idx))
	for i, v := range idx {
		out[i] = fn(v)
	}
	return out
}
