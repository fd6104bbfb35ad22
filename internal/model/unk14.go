package model

import "fmt"

// Unk14Record is the typed 0x18-byte record of the unk14 section. Its
// meaning is not known; fields are named by their byte offset.
type Unk14Record struct {
	Unk00 [3]int16
	Unk06 [3]int16
	Unk0C [3]int16
	Unk12 [3]uint8
	Unk15 uint8
	Unk16 int8
	Pad17 uint8
}

// Unk14List is the unk14 section: a typed record list plus two lists kept as
// raw bytes. Each list is counted in a u16.
type Unk14List struct {
	Scale   int16
	Records []Unk14Record
	Raw10   [][0x10]byte
	Raw0C   [][0x0C]byte
}

func (*Unk14List) Kind() Kind { return KindUnk14 }

func (u *Unk14List) ByteSize() int {
	return align8(8 + 0x18*len(u.Records) + 0x10*len(u.Raw10) + 0x0C*len(u.Raw0C))
}

func (u *Unk14List) Encode() []byte {
	b := make([]byte, 0, u.ByteSize())
	b = appendU16(b, uint16(len(u.Records)))
	b = appendU16(b, uint16(len(u.Raw10)))
	b = appendU16(b, uint16(len(u.Raw0C)))
	b = appendI16(b, u.Scale)
	for _, rec := range u.Records {
		b = appendVec3i16(b, rec.Unk00)
		b = appendVec3i16(b, rec.Unk06)
		b = appendVec3i16(b, rec.Unk0C)
		b = append(b, rec.Unk12[:]...)
		b = append(b, rec.Unk15, uint8(rec.Unk16), rec.Pad17)
	}
	for _, raw := range u.Raw10 {
		b = append(b, raw[:]...)
	}
	for _, raw := range u.Raw0C {
		b = append(b, raw[:]...)
	}
	return pad(b)
}

func DecodeUnk14List(b []byte) (*Unk14List, error) {
	r := newReader(b)
	n0, n1, n2 := int(r.u16()), int(r.u16()), int(r.u16())
	u := &Unk14List{Scale: r.i16()}
	u.Records = readRecords(r, "unk14 records", n0, 0x18, func(r *reader) Unk14Record {
		var rec Unk14Record
		rec.Unk00 = r.vec3i16()
		rec.Unk06 = r.vec3i16()
		rec.Unk0C = r.vec3i16()
		r.copyInto(rec.Unk12[:])
		rec.Unk15 = r.u8()
		rec.Unk16 = r.i8()
		rec.Pad17 = r.u8()
		return rec
	})
	u.Raw10 = readRecords(r, "unk14 0x10 records", n1, 0x10, func(r *reader) (raw [0x10]byte) {
		r.copyInto(raw[:])
		return raw
	})
	u.Raw0C = readRecords(r, "unk14 0x0C records", n2, 0x0C, func(r *reader) (raw [0x0C]byte) {
		r.copyInto(raw[:])
		return raw
	})
	if r.err != nil {
		return nil, fmt.Errorf("unk14 list: %w", r.err)
	}
	return u, nil
}
