package model

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of the model header.
const HeaderSize = 0x38

// Magic opens every model file.
var Magic = [4]byte{0x00, 0x00, 0x00, 0x0B}

// Header is the offset table at the start of a model. Offsets are indexed by
// Kind and are absolute; zero means the section is absent. The texture slot
// is only 16 bits wide on disk.
type Header struct {
	Offsets   [numKinds]uint32
	Unknown0A [2]byte
	Unknown30 [4]byte
	Unknown34 [4]byte
}

// headerSlot places one section offset in the header.
type headerSlot struct {
	kind Kind
	pos  int
	wide bool
}

// headerSlots is in file order, which is also the order sections are decoded.
var headerSlots = []headerSlot{
	{KindGeo, 0x04, true},
	{KindTexture, 0x08, false},
	{KindDisplayList, 0x0C, true},
	{KindVertex, 0x10, true},
	{KindUnk14, 0x14, true},
	{KindAnimation, 0x18, true},
	{KindCollision, 0x1C, true},
	{KindUnk20, 0x20, true},
	{KindMesh, 0x24, true},
	{KindUnk28, 0x28, true},
	{KindAnimatedTexture, 0x2C, true},
}

// Offset returns the stored offset for k.
func (h *Header) Offset(k Kind) uint32 { return h.Offsets[k] }

// DecodeHeader reads the fixed header from the start of b.
func DecodeHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, fmt.Errorf("header needs 0x%X bytes, have 0x%X: %w", HeaderSize, len(b), ErrTruncated)
	}
	if [4]byte(b[:4]) != Magic {
		return h, fmt.Errorf("got % X: %w", b[:4], ErrBadMagic)
	}
	for _, s := range headerSlots {
		if s.wide {
			h.Offsets[s.kind] = binary.BigEndian.Uint32(b[s.pos:])
		} else {
			h.Offsets[s.kind] = uint32(binary.BigEndian.Uint16(b[s.pos:]))
		}
	}
	copy(h.Unknown0A[:], b[0x0A:])
	copy(h.Unknown30[:], b[0x30:])
	copy(h.Unknown34[:], b[0x34:])
	return h, nil
}

// Bytes encodes the header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	copy(b, Magic[:])
	for _, s := range headerSlots {
		if s.wide {
			binary.BigEndian.PutUint32(b[s.pos:], h.Offsets[s.kind])
		} else {
			binary.BigEndian.PutUint16(b[s.pos:], uint16(h.Offsets[s.kind]))
		}
	}
	copy(b[0x0A:], h.Unknown0A[:])
	copy(b[0x30:], h.Unknown30[:])
	copy(b[0x34:], h.Unknown34[:])
	return b
}
