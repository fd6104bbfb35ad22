package model

import "fmt"

// Unk28Element ties a coordinate and an animation index to a set of
// vertices. The index count is one byte wide.
type Unk28Element struct {
	Coord     [3]int16
	AnimIndex int8
	Vertices  []uint16
}

func (e Unk28Element) size() int { return 8 + 2*len(e.Vertices) }

// Unk28List is the unk28 section. The element count is a u16 and each
// element's vertex count a single byte, so an element holds at most 255
// vertex indices.
type Unk28List struct {
	Reserved2 [2]byte
	Elements  []Unk28Element
}

func (*Unk28List) Kind() Kind { return KindUnk28 }

func (l *Unk28List) ByteSize() int {
	n := 4
	for _, e := range l.Elements {
		n += e.size()
	}
	return align8(n)
}

func (l *Unk28List) Encode() []byte {
	b := make([]byte, 0, l.ByteSize())
	b = appendU16(b, uint16(len(l.Elements)))
	b = append(b, l.Reserved2[:]...)
	for _, e := range l.Elements {
		b = appendVec3i16(b, e.Coord)
		b = append(b, uint8(e.AnimIndex), uint8(len(e.Vertices)))
		for _, v := range e.Vertices {
			b = appendU16(b, v)
		}
	}
	return pad(b)
}

func DecodeUnk28List(b []byte) (*Unk28List, error) {
	r := newReader(b)
	count := int(r.u16())
	l := &Unk28List{}
	r.copyInto(l.Reserved2[:])
	for i := 0; i < count && r.err == nil; i++ {
		e := Unk28Element{Coord: r.vec3i16(), AnimIndex: r.i8()}
		n := int(r.u8())
		e.Vertices = readRecords(r, fmt.Sprintf("unk28 element %d indices", i), n, 2, (*reader).u16)
		l.Elements = append(l.Elements, e)
	}
	if r.err != nil {
		return nil, fmt.Errorf("unk28 list: %w", r.err)
	}
	return l, nil
}
