package model

import "fmt"

// Unk20Element is one 0xE-byte record of the unk20 section.
type Unk20Element struct {
	Unk0 [3]int16
	Unk6 [3]int16
	UnkC uint8
	PadD uint8
}

// Unk20List is the unk20 section. Its count is a single byte, so at most
// 255 elements can be encoded; longer lists wrap on Encode and are reported
// by Model.Validate.
type Unk20List struct {
	Reserved1 uint8
	Elements  []Unk20Element
}

func (*Unk20List) Kind() Kind { return KindUnk20 }

func (l *Unk20List) ByteSize() int { return align8(2 + 0xE*len(l.Elements)) }

func (l *Unk20List) Encode() []byte {
	b := make([]byte, 0, l.ByteSize())
	b = append(b, uint8(len(l.Elements)), l.Reserved1)
	for _, e := range l.Elements {
		b = appendVec3i16(b, e.Unk0)
		b = appendVec3i16(b, e.Unk6)
		b = append(b, e.UnkC, e.PadD)
	}
	return pad(b)
}

func DecodeUnk20List(b []byte) (*Unk20List, error) {
	r := newReader(b)
	count := int(r.u8())
	l := &Unk20List{Reserved1: r.u8()}
	l.Elements = readRecords(r, "unk20 elements", count, 0xE, func(r *reader) Unk20Element {
		return Unk20Element{Unk0: r.vec3i16(), Unk6: r.vec3i16(), UnkC: r.u8(), PadD: r.u8()}
	})
	if r.err != nil {
		return nil, fmt.Errorf("unk20 list: %w", r.err)
	}
	return l, nil
}
