package pixel

import (
	"errors"
	"fmt"
)

// Format is the 16-bit pixel format tag stored in a texture header record.
// Tags outside the known set are kept as-is so that they survive a round trip.
type Format uint16

const (
	FormatCI4    Format = 0x001
	FormatCI8    Format = 0x004
	FormatI4     Format = 0x020
	FormatI8     Format = 0x040
	FormatIA4    Format = 0x080
	FormatIA8    Format = 0x100
	FormatRGBA16 Format = 0x400
	FormatRGBA32 Format = 0x800
)

var (
	// ErrUnknownFormat is returned when pixel data is requested for a tag
	// outside the known set.
	ErrUnknownFormat = errors.New("pixel: unknown format tag")
	// ErrShortData is returned when a byte stream holds fewer units than a
	// grid of the requested size needs.
	ErrShortData = errors.New("pixel: not enough pixel data")
	// ErrNoPalette is returned when a colour-indexed format is used without
	// a palette.
	ErrNoPalette = errors.New("pixel: colour-indexed format needs a palette")
)

// Formats lists every known tag in ascending tag order.
var Formats = []Format{
	FormatCI4, FormatCI8, FormatI4, FormatI8,
	FormatIA4, FormatIA8, FormatRGBA16, FormatRGBA32,
}

// Known reports whether f is one of the eight recognised tags.
func (f Format) Known() bool {
	return f.BitsPerPixel() != 0
}

// BitsPerPixel returns the width of one unit, or 0 for an unknown tag.
func (f Format) BitsPerPixel() int {
	switch f {
	case FormatCI4, FormatI4, FormatIA4:
		return 4
	case FormatCI8, FormatI8, FormatIA8:
		return 8
	case FormatRGBA16:
		return 16
	case FormatRGBA32:
		return 32
	}
	return 0
}

// Indexed reports whether f stores palette indices rather than colours.
func (f Format) Indexed() bool {
	return f == FormatCI4 || f == FormatCI8
}

// PaletteLen returns the number of palette entries an indexed format uses.
func (f Format) PaletteLen() int {
	switch f {
	case FormatCI4:
		return 16
	case FormatCI8:
		return 256
	}
	return 0
}

// PixelBytes returns the number of bytes n units occupy, rounding sub-byte
// formats up to a whole byte.
func (f Format) PixelBytes(n int) int {
	return (n*f.BitsPerPixel() + 7) / 8
}

// DataLen returns the number of bytes a width×height texture of this format
// occupies in a texture blob, palette included.
func (f Format) DataLen(width, height int) int {
	return 2*f.PaletteLen() + f.PixelBytes(width*height)
}

func (f Format) String() string {
	switch f {
	case FormatCI4:
		return "CI4"
	case FormatCI8:
		return "CI8"
	case FormatI4:
		return "I4"
	case FormatI8:
		return "I8"
	case FormatIA4:
		return "IA4"
	case FormatIA8:
		return "IA8"
	case FormatRGBA16:
		return "RGBA16"
	case FormatRGBA32:
		return "RGBA32"
	}
	return fmt.Sprintf("Unknown(0x%03X)", uint16(f))
}

// ParseFormat maps a format name as printed by String back to its tag.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("pixel: parse format %q: %w", name, ErrUnknownFormat)
}
