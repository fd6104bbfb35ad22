package model

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"bk-asset-codec/internal/pixel"
)

// fullModel builds a model with every section present and odd-sized lists,
// so each section needs padding somewhere.
func fullModel() *Model {
	blob := make([]byte, 0x2B)
	for i := range blob {
		blob[i] = byte(i * 7)
	}
	return &Model{
		Unknown0A: [2]byte{0xAA, 0xBB},
		Unknown30: [4]byte{1, 2, 3, 4},
		Unknown34: [4]byte{5, 6, 7, 8},
		Textures: &TextureList{
			Textures: []TextureHeader{
				{Offset: 0, Format: pixel.FormatCI4, Width: 2, Height: 2},
				{Offset: 0x28, Format: pixel.Format(0x200), Width: 1, Height: 1, Reserved0A: [6]byte{9}},
			},
			Data: blob,
		},
		DisplayList: &DisplayList{
			Filler:   [4]byte{0xDE, 0xAD, 0xBE, 0xEF},
			Commands: []Command{{0x01, 2, 3, 4, 5, 6, 7, 8}, {0xDF}},
		},
		Vertices: NewVertexList([]Vertex{
			{Position: [3]int16{0, 0, 0}, Color: [4]uint8{0xFF, 0, 0, 0xFF}},
			{Position: [3]int16{10, 20, -4}, Flag: 1, TexCoord: [2]int16{32, -32}},
		}),
		Unk14: &Unk14List{
			Scale:   3,
			Records: []Unk14Record{{Unk00: [3]int16{1, 2, 3}, Unk12: [3]uint8{4, 5, 6}, Unk16: -1}},
			Raw10:   [][0x10]byte{{1}},
			Raw0C:   [][0x0C]byte{{2}},
		},
		Collision: &CollisionList{
			Min: [3]int16{-100, -100, -100}, Max: [3]int16{100, 100, 100},
			YStride: 2, ZStride: 4, Scale: 1,
			Groups:    []CollisionGroup{{0, 1}},
			Triangles: []CollisionTri{{Vertex: [3]int16{0, 1, 0}, Flags: 0x80000001}},
		},
		Meshes: &MeshList{Meshes: []Mesh{{UID: 1, Vertices: []uint16{0, 1}}, {UID: 2}}},
		Unk20:  &Unk20List{Elements: []Unk20Element{{Unk0: [3]int16{1, 1, 1}, UnkC: 9}}},
		Unk28:  &Unk28List{Elements: []Unk28Element{{Coord: [3]int16{5, 5, 5}, AnimIndex: -2, Vertices: []uint16{1}}}},
		Animation: &AnimationList{
			Unk0:  1.25,
			Bones: []AnimationBone{{Position: [3]float32{0, 1, 2}, BoneID: 0, ParentID: -1}},
		},
		AnimatedTextures: &AnimatedTextureList{
			Slots: [4]*AnimatedTexture{nil, {FrameSize: 0x100, FrameCount: 4, FPS: 12}},
		},
		LegacyGeo: &GeoPointer{InTail: true, Offset: 0},
		Tail:      []byte{0, 0, 0, 0xC, 0, 0, 0, 0},
	}
}

func TestRoundTripFullModel(t *testing.T) {
	enc := fullModel().Encode()
	m, err := Decode(enc)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := m.Encode(); !bytes.Equal(got, enc) {
		t.Fatalf("re-encode differs:\n got % X\nwant % X", got, enc)
	}
	if len(m.Sections()) != len(PackingOrder) {
		t.Fatalf("sections = %d, want %d", len(m.Sections()), len(PackingOrder))
	}
}

func TestPackingOrderOffsets(t *testing.T) {
	m := fullModel()
	enc := m.Encode()
	h, err := DecodeHeader(enc)
	if err != nil {
		t.Fatal(err)
	}
	off := uint32(HeaderSize)
	for _, k := range PackingOrder {
		if h.Offsets[k] != off {
			t.Fatalf("%s at 0x%X, want 0x%X", k, h.Offsets[k], off)
		}
		s := m.Section(k)
		if s.ByteSize()%8 != 0 || s.ByteSize() != len(s.Encode()) {
			t.Fatalf("%s: ByteSize %d, len(Encode) %d", k, s.ByteSize(), len(s.Encode()))
		}
		off += uint32(s.ByteSize())
	}
	if h.Offsets[KindGeo] != off {
		t.Fatalf("geo at 0x%X, want tail start 0x%X", h.Offsets[KindGeo], off)
	}
	if !bytes.Equal(enc[off:], m.Tail) {
		t.Fatalf("tail = % X", enc[off:])
	}
	if h.Unknown0A != m.Unknown0A || h.Unknown30 != m.Unknown30 || h.Unknown34 != m.Unknown34 {
		t.Fatalf("opaque header fields not carried: %+v", h)
	}
}

func TestAllZeroHeader(t *testing.T) {
	in := make([]byte, HeaderSize)
	copy(in, Magic[:])
	m, err := Decode(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Sections()) != 0 || m.LegacyGeo != nil || len(m.Tail) != 0 {
		t.Fatalf("model = %+v", m)
	}
	if got := m.Encode(); !bytes.Equal(got, in) {
		t.Fatalf("encode = % X", got)
	}
	if got := (&Model{}).Encode(); !bytes.Equal(got, in) {
		t.Fatalf("empty model encode = % X", got)
	}
}

func TestAbsentSectionSymmetry(t *testing.T) {
	for _, k := range PackingOrder {
		m := fullModel()
		full := m.Encode()
		dropped := m.Section(k).ByteSize()
		switch k {
		case KindTexture:
			m.Textures = nil
		case KindDisplayList:
			m.DisplayList = nil
		case KindVertex:
			m.Vertices = nil
		case KindUnk14:
			m.Unk14 = nil
		case KindCollision:
			m.Collision = nil
		case KindMesh:
			m.Meshes = nil
		case KindUnk20:
			m.Unk20 = nil
		case KindUnk28:
			m.Unk28 = nil
		case KindAnimation:
			m.Animation = nil
		case KindAnimatedTexture:
			m.AnimatedTextures = nil
		}
		enc := m.Encode()
		if len(enc) != len(full)-dropped {
			t.Errorf("%s: len %d, want %d", k, len(enc), len(full)-dropped)
		}
		dec, err := Decode(enc)
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		if dec.Section(k) != nil {
			t.Errorf("%s: decoded a section from a zero offset", k)
		}
		if h := dec.Offsets(); h.Offsets[k] != 0 {
			t.Errorf("%s: offset 0x%X, want 0", k, h.Offsets[k])
		}
		if !bytes.Equal(dec.Encode(), enc) {
			t.Errorf("%s: round trip differs", k)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	full := fullModel().Encode()

	badMagic := bytes.Clone(full)
	badMagic[3] = 0x0C

	short := full[:HeaderSize-1]

	// Vertex offset beyond the file.
	farOffset := bytes.Clone(full)
	binary.BigEndian.PutUint32(farOffset[0x10:], uint32(len(full)+8))

	// Drop the tail and the animated texture table: the sections no longer fit.
	h, _ := DecodeHeader(full)
	cut := full[:h.Offsets[KindAnimatedTexture]+8]

	tests := []struct {
		name string
		in   []byte
		want error
	}{
		{"bad magic", badMagic, ErrBadMagic},
		{"short header", short, ErrTruncated},
		{"offset past end", farOffset, ErrTruncated},
		{"cut section", cut, ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(tt.in)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if m != nil {
				t.Fatal("partial model returned")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("err %T is not a *FormatError", err)
			}
		})
	}
}

func TestInflatedCountIsFatal(t *testing.T) {
	m := fullModel()
	enc := m.Encode()
	h := m.Offsets()
	// The display list count lives in the first word of its section.
	binary.BigEndian.PutUint32(enc[h.Offsets[KindDisplayList]:], 0x10000)
	_, err := Decode(enc)
	if !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("err = %v, want count mismatch", err)
	}
	var fe *FormatError
	if !errors.As(err, &fe) || fe.Section != KindDisplayList.String() || fe.Offset != int(h.Offsets[KindDisplayList]) {
		t.Fatalf("err = %#v", err)
	}
}

func TestGeoPointerFollowsTail(t *testing.T) {
	m := fullModel()
	m.LegacyGeo = &GeoPointer{InTail: true, Offset: 4}
	dec, err := Decode(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if *dec.LegacyGeo != (GeoPointer{InTail: true, Offset: 4}) {
		t.Fatalf("geo pointer = %+v", dec.LegacyGeo)
	}

	before := dec.Offsets().Offsets[KindGeo]
	dec.DisplayList.Commands = append(dec.DisplayList.Commands, Command{})
	after := dec.Offsets().Offsets[KindGeo]
	if after != before+8 {
		t.Fatalf("geo offset %X -> %X, want +8", before, after)
	}

	// A pointer below the tail start is absolute and left alone.
	m.LegacyGeo = &GeoPointer{Offset: 0x40}
	dec, err = Decode(m.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if *dec.LegacyGeo != (GeoPointer{Offset: 0x40}) {
		t.Fatalf("geo pointer = %+v", dec.LegacyGeo)
	}
}

func TestGeoTree(t *testing.T) {
	m := &Model{
		LegacyGeo: &GeoPointer{InTail: true},
		// A single load-dl command.
		Tail: []byte{0, 0, 0, 3, 0, 0, 0, 0, 0x01, 0x20, 0, 0, 0, 0, 0, 0},
	}
	a, err := m.GeoTree()
	if err != nil {
		t.Fatal(err)
	}
	root := a.Nodes[a.Root]
	if root == nil || root.DisplayList != 0x120 {
		t.Fatalf("root = %+v", root)
	}

	if a, err := (&Model{}).GeoTree(); a != nil || err != nil {
		t.Fatalf("no pointer: %v, %v", a, err)
	}
}

func TestDecodeCopiesInput(t *testing.T) {
	enc := fullModel().Encode()
	want := bytes.Clone(enc)
	m, err := Decode(enc)
	if err != nil {
		t.Fatal(err)
	}
	for i := range enc {
		enc[i] = 0xFF
	}
	if !bytes.Equal(m.Encode(), want) {
		t.Fatal("decoded model aliases the input buffer")
	}
}

func TestValidateCountLimits(t *testing.T) {
	m := fullModel()
	if err := m.Validate(); err != nil {
		t.Fatalf("full model: %v", err)
	}

	m.Unk20 = &Unk20List{Elements: make([]Unk20Element, 255)}
	if err := m.Validate(); err != nil {
		t.Fatalf("255 unk20 elements: %v", err)
	}
	m.Unk20.Elements = append(m.Unk20.Elements, Unk20Element{})
	if err := m.Validate(); !errors.Is(err, ErrCountOverflow) {
		t.Fatalf("256 unk20 elements: err = %v", err)
	}
	// The wrapped count no longer describes the list.
	back, err := DecodeUnk20List(m.Unk20.Encode())
	if err != nil || len(back.Elements) != 0 {
		t.Fatalf("wrapped unk20 decodes to %d elements, err %v", len(back.Elements), err)
	}

	m.Unk20 = nil
	m.Unk28 = &Unk28List{Elements: []Unk28Element{{Vertices: make([]uint16, 256)}}}
	m.Collision = &CollisionList{Triangles: make([]CollisionTri, 1<<16)}
	err = m.Validate()
	if !errors.Is(err, ErrCountOverflow) {
		t.Fatalf("err = %v", err)
	}
	for _, want := range []string{"unk28", "collision"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not name %s", err, want)
		}
	}
}
