package pixel

import "image/color"

// CI4 is a 4-bit palette index.
type CI4 uint8

// CI8 is an 8-bit palette index.
type CI8 uint8

// I4 is a 4-bit intensity.
type I4 uint8

// I8 is an 8-bit intensity.
type I8 uint8

// IA4 packs a 3-bit intensity and a 1-bit alpha into one nibble.
type IA4 struct {
	I uint8 // 0..7
	A uint8 // 0..1
}

// IA8 packs a 4-bit intensity (high nibble) and a 4-bit alpha (low nibble).
type IA8 struct {
	I uint8 // 0..15
	A uint8 // 0..15
}

// IA16 is an 8-bit intensity followed by an 8-bit alpha. It has no texture
// tag of its own; it is the common grey-plus-alpha representation.
type IA16 struct {
	I uint8
	A uint8
}

// RGBA16 is a 5/5/5/1 colour: r in bits 15..11, g 10..6, b 5..1, alpha bit 0.
type RGBA16 struct {
	R, G, B uint8 // 0..31
	A       uint8 // 0..1
}

// RGBA32 is an 8-bit-per-channel, non-premultiplied colour.
type RGBA32 struct {
	R, G, B, A uint8
}

// Expansion rules shared by every conversion.

func expand3(v uint8) uint8 {
	v &= 0x7
	return v<<5 | v<<2 | v>>1
}

func expand4(v uint8) uint8 {
	v &= 0xF
	return v<<4 | v
}

func expand5(v uint8) uint8 {
	v &= 0x1F
	return v<<3 | v>>2
}

func expand1(v uint8) uint8 {
	if v&1 == 0 {
		return 0
	}
	return 0xFF
}

// bit1 contracts an alpha channel to a single bit: any coverage is opaque.
func bit1(v uint8) uint8 {
	if v == 0 {
		return 0
	}
	return 1
}

func average(r, g, b uint8) uint8 {
	return uint8((uint16(r) + uint16(g) + uint16(b)) / 3)
}

// Single-unit encoders.

// Nibble returns the unit's 4-bit encoding.
func (c CI4) Nibble() uint8 { return uint8(c) & 0x0F }

// Nibble returns the unit's 4-bit encoding.
func (i I4) Nibble() uint8 { return uint8(i) & 0x0F }

// Nibble returns the unit's 4-bit encoding.
func (p IA4) Nibble() uint8 { return (p.I&0x7)<<1 | p.A&1 }

func (c CI8) Byte() uint8 { return uint8(c) }
func (i I8) Byte() uint8 { return uint8(i) }
func (p IA8) Byte() uint8 { return (p.I&0x0F)<<4 | p.A&0x0F }
func (p IA16) Bytes() [2]byte { return [2]byte{p.I, p.A} }

func (p RGBA16) Bytes() [2]byte {
	v := uint16(p.R&0x1F)<<11 | uint16(p.G&0x1F)<<6 | uint16(p.B&0x1F)<<1 | uint16(p.A&1)
	return [2]byte{byte(v >> 8), byte(v)}
}

func (p RGBA32) Bytes() [4]byte { return [4]byte{p.R, p.G, p.B, p.A} }

func ia4FromNibble(n uint8) IA4 { return IA4{I: (n >> 1) & 0x7, A: n & 1} }
func ia8FromByte(b uint8) IA8 { return IA8{I: b >> 4, A: b & 0x0F} }

func rgba16FromBytes(hi, lo byte) RGBA16 {
	v := uint16(hi)<<8 | uint16(lo)
	return RGBA16{
		R: uint8(v>>11) & 0x1F,
		G: uint8(v>>6) & 0x1F,
		B: uint8(v>>1) & 0x1F,
		A: uint8(v) & 1,
	}
}

// Expansions to RGBA32.

func (i I4) RGBA32() RGBA32 {
	v := expand4(uint8(i))
	return RGBA32{v, v, v, 0xFF}
}

func (i I8) RGBA32() RGBA32 {
	return RGBA32{uint8(i), uint8(i), uint8(i), 0xFF}
}

func (p IA4) RGBA32() RGBA32 {
	v := expand3(p.I)
	return RGBA32{v, v, v, expand1(p.A)}
}

func (p IA8) RGBA32() RGBA32 {
	v := expand4(p.I)
	return RGBA32{v, v, v, expand4(p.A)}
}

func (p IA16) RGBA32() RGBA32 {
	return RGBA32{p.I, p.I, p.I, p.A}
}

func (p RGBA16) RGBA32() RGBA32 {
	return RGBA32{expand5(p.R), expand5(p.G), expand5(p.B), expand1(p.A)}
}

func (p RGBA32) RGBA32() RGBA32 { return p }

// Color looks the index up in the palette.
func (c CI4) Color(p Palette) RGBA32 { return p.At(int(c.Nibble())) }

// Color looks the index up in the palette.
func (c CI8) Color(p Palette) RGBA32 { return p.At(int(c)) }

// Expansions to IA16.

func (i I4) IA16() IA16 { return IA16{expand4(uint8(i)), 0xFF} }
func (i I8) IA16() IA16 { return IA16{uint8(i), 0xFF} }
func (p IA4) IA16() IA16 { return IA16{expand3(p.I), expand1(p.A)} }
func (p IA8) IA16() IA16 { return IA16{expand4(p.I), expand4(p.A)} }
func (p IA16) IA16() IA16 { return p }
func (p RGBA16) IA16() IA16 { return p.RGBA32().IA16() }

// IA16 reduces the colour to grey by an unweighted channel average.
func (p RGBA32) IA16() IA16 { return IA16{average(p.R, p.G, p.B), p.A} }

// Conversions to RGBA16. Channels are brought to 5 bits directly from their
// source width; any non-zero alpha becomes the opaque bit.

func (i I4) RGBA16() RGBA16 {
	v := uint8(i) & 0x0F
	v = v<<1 | v>>3
	return RGBA16{v, v, v, 1}
}

func (i I8) RGBA16() RGBA16 {
	v := uint8(i) >> 3
	return RGBA16{v, v, v, 1}
}

func (p IA4) RGBA16() RGBA16 {
	v := p.I & 0x7
	v = v<<2 | v>>1
	return RGBA16{v, v, v, p.A & 1}
}

func (p IA8) RGBA16() RGBA16 {
	v := p.I & 0x0F
	v = v<<1 | v>>3
	return RGBA16{v, v, v, bit1(p.A)}
}

func (p IA16) RGBA16() RGBA16 {
	v := p.I >> 3
	return RGBA16{v, v, v, bit1(p.A)}
}

func (p RGBA16) RGBA16() RGBA16 { return p }

func (p RGBA32) RGBA16() RGBA16 {
	return RGBA16{p.R >> 3, p.G >> 3, p.B >> 3, bit1(p.A)}
}

// Contractions from RGBA32. Grey formats take the unweighted channel average.

func I4FromRGBA32(c RGBA32) I4 { return I4(average(c.R, c.G, c.B) >> 4) }
func I8FromRGBA32(c RGBA32) I8 { return I8(average(c.R, c.G, c.B)) }

func IA4FromRGBA32(c RGBA32) IA4 {
	return IA4{I: average(c.R, c.G, c.B) >> 5, A: bit1(c.A)}
}

func IA8FromRGBA32(c RGBA32) IA8 {
	return IA8{I: average(c.R, c.G, c.B) >> 4, A: c.A >> 4}
}

func IA16FromRGBA32(c RGBA32) IA16 { return c.IA16() }
func RGBA16FromRGBA32(c RGBA32) RGBA16 { return c.RGBA16() }

// RGBA implements color.Color.
func (p RGBA32) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}.RGBA()
}

// RGBA32Model converts any colour to RGBA32.
var RGBA32Model = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(RGBA32); ok {
		return p
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA32{n.R, n.G, n.B, n.A}
})
