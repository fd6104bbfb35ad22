package pixel

import "iter"

// Stream decoders. Each one walks the byte slice lazily; sub-byte formats
// yield the high nibble of every byte before the low nibble. A trailing
// partial unit, such as an odd byte of a 16-bit format, is dropped.

func DecodeCI4(b []byte) iter.Seq[CI4] {
	return func(yield func(CI4) bool) {
		for _, v := range b {
			if !yield(CI4(v>>4)) || !yield(CI4(v&0x0F)) {
				return
			}
		}
	}
}

func DecodeCI8(b []byte) iter.Seq[CI8] {
	return func(yield func(CI8) bool) {
		for _, v := range b {
			if !yield(CI8(v)) {
				return
			}
		}
	}
}

func DecodeI4(b []byte) iter.Seq[I4] {
	return func(yield func(I4) bool) {
		for _, v := range b {
			if !yield(I4(v>>4)) || !yield(I4(v&0x0F)) {
				return
			}
		}
	}
}

func DecodeI8(b []byte) iter.Seq[I8] {
	return func(yield func(I8) bool) {
		for _, v := range b {
			if !yield(I8(v)) {
				return
			}
		}
	}
}

func DecodeIA4(b []byte) iter.Seq[IA4] {
	return func(yield func(IA4) bool) {
		for _, v := range b {
			if !yield(ia4FromNibble(v>>4)) || !yield(ia4FromNibble(v&0x0F)) {
				return
			}
		}
	}
}

func DecodeIA8(b []byte) iter.Seq[IA8] {
	return func(yield func(IA8) bool) {
		for _, v := range b {
			if !yield(ia8FromByte(v)) {
				return
			}
		}
	}
}

func DecodeIA16(b []byte) iter.Seq[IA16] {
	return func(yield func(IA16) bool) {
		for i := 0; i+1 < len(b); i += 2 {
			if !yield(IA16{I: b[i], A: b[i+1]}) {
				return
			}
		}
	}
}

func DecodeRGBA16(b []byte) iter.Seq[RGBA16] {
	return func(yield func(RGBA16) bool) {
		for i := 0; i+1 < len(b); i += 2 {
			if !yield(rgba16FromBytes(b[i], b[i+1])) {
				return
			}
		}
	}
}

func DecodeRGBA32(b []byte) iter.Seq[RGBA32] {
	return func(yield func(RGBA32) bool) {
		for i := 0; i+3 < len(b); i += 4 {
			if !yield(RGBA32{b[i], b[i+1], b[i+2], b[i+3]}) {
				return
			}
		}
	}
}

// nibbler is any unit that encodes to four bits.
type nibbler interface {
	Nibble() uint8
}

// packNibbles packs units two per byte, high nibble first. An odd count
// leaves the final low nibble zero.
func packNibbles[T nibbler](units []T) []byte {
	out := make([]byte, (len(units)+1)/2)
	for i, u := range units {
		if i%2 == 0 {
			out[i/2] = u.Nibble() << 4
		} else {
			out[i/2] |= u.Nibble()
		}
	}
	return out
}

func EncodeCI4(units []CI4) []byte { return packNibbles(units) }
func EncodeI4(units []I4) []byte { return packNibbles(units) }
func EncodeIA4(units []IA4) []byte { return packNibbles(units) }

func EncodeCI8(units []CI8) []byte {
	out := make([]byte, len(units))
	for i, u := range units {
		out[i] = u.Byte()
	}
	return out
}

func EncodeI8(units []I8) []byte {
	out := make([]byte, len(units))
	for i, u := range units {
		out[i] = u.Byte()
	}
	return out
}

func EncodeIA8(units []IA8) []byte {
	out := make([]byte, len(units))
	for i, u := range units {
		out[i] = u.Byte()
	}
	return out
}

func EncodeIA16(units []IA16) []byte {
	out := make([]byte, 0, 2*len(units))
	for _, u := range units {
		b := u.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

func EncodeRGBA16(units []RGBA16) []byte {
	out := make([]byte, 0, 2*len(units))
	for _, u := range units {
		b := u.Bytes()
		out = append(out, b[:]...)
	}
	return out
}

func EncodeRGBA32(units []RGBA32) []byte {
	out := make([]byte, 0, 4*len(units))
	for _, u := range units {
		b := u.Bytes()
		out = append(out, b[:]...)
	}
	return out
}
