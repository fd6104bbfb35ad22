package model

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"bk-asset-codec/internal/geo"
)

// GeoPointer is the header's legacy geometry offset. When it pointed into
// the unparsed tail it is kept relative to the tail start so it follows the
// tail when sections change size.
type GeoPointer struct {
	InTail bool
	Offset uint32
}

// Model is a decoded model file. Nil section pointers are absent sections
// and encode as zero header offsets.
type Model struct {
	Unknown0A [2]byte
	Unknown30 [4]byte
	Unknown34 [4]byte

	Textures         *TextureList
	DisplayList      *DisplayList
	Vertices         *VertexList
	Unk14            *Unk14List
	Collision        *CollisionList
	Meshes           *MeshList
	Unk20            *Unk20List
	Unk28            *Unk28List
	Animation        *AnimationList
	AnimatedTextures *AnimatedTextureList

	LegacyGeo *GeoPointer
	// Tail is everything after the last packed section, kept verbatim.
	Tail []byte
}

// Section returns the section of kind k, or nil when it is absent.
func (m *Model) Section(k Kind) Section {
	switch k {
	case KindTexture:
		if m.Textures != nil {
			return m.Textures
		}
	case KindDisplayList:
		if m.DisplayList != nil {
			return m.DisplayList
		}
	case KindVertex:
		if m.Vertices != nil {
			return m.Vertices
		}
	case KindUnk14:
		if m.Unk14 != nil {
			return m.Unk14
		}
	case KindCollision:
		if m.Collision != nil {
			return m.Collision
		}
	case KindMesh:
		if m.Meshes != nil {
			return m.Meshes
		}
	case KindUnk20:
		if m.Unk20 != nil {
			return m.Unk20
		}
	case KindUnk28:
		if m.Unk28 != nil {
			return m.Unk28
		}
	case KindAnimation:
		if m.Animation != nil {
			return m.Animation
		}
	case KindAnimatedTexture:
		if m.AnimatedTextures != nil {
			return m.AnimatedTextures
		}
	}
	return nil
}

// SetSection stores s in the field for its kind.
func (m *Model) SetSection(s Section) {
	switch s := s.(type) {
	case *TextureList:
		m.Textures = s
	case *DisplayList:
		m.DisplayList = s
	case *VertexList:
		m.Vertices = s
	case *Unk14List:
		m.Unk14 = s
	case *CollisionList:
		m.Collision = s
	case *MeshList:
		m.Meshes = s
	case *Unk20List:
		m.Unk20 = s
	case *Unk28List:
		m.Unk28 = s
	case *AnimationList:
		m.Animation = s
	case *AnimatedTextureList:
		m.AnimatedTextures = s
	}
}

// Sections returns the present sections in packing order.
func (m *Model) Sections() []Section {
	var out []Section
	for _, k := range PackingOrder {
		if s := m.Section(k); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// tailStart is where the tail begins in the encoded file.
func (m *Model) tailStart() int {
	n := HeaderSize
	for _, s := range m.Sections() {
		n += s.ByteSize()
	}
	return n
}

// Offsets returns the header Encode would write: sections packed back to
// back from the end of the header, absent ones at zero.
func (m *Model) Offsets() Header {
	h := Header{
		Unknown0A: m.Unknown0A,
		Unknown30: m.Unknown30,
		Unknown34: m.Unknown34,
	}
	off := HeaderSize
	for _, s := range m.Sections() {
		h.Offsets[s.Kind()] = uint32(off)
		off += s.ByteSize()
	}
	if g := m.LegacyGeo; g != nil {
		h.Offsets[KindGeo] = g.Offset
		if g.InTail {
			h.Offsets[KindGeo] += uint32(off)
		}
	}
	return h
}

// Encode serializes the model: header, sections in packing order, tail.
func (m *Model) Encode() []byte {
	h := m.Offsets()
	out := make([]byte, 0, m.tailStart()+len(m.Tail))
	out = append(out, h.Bytes()...)
	for _, s := range m.Sections() {
		out = append(out, s.Encode()...)
	}
	return append(out, m.Tail...)
}

// GeoTree parses the legacy geometry tree the header points at. It returns
// nil when the model has no geometry pointer.
func (m *Model) GeoTree() (*geo.Arena, error) {
	if m.LegacyGeo == nil {
		return nil, nil
	}
	h := m.Offsets()
	return geo.Parse(m.Encode(), int(h.Offsets[KindGeo]))
}

// Decoder decodes model files. The zero value is ready to use and logs
// nothing.
type Decoder struct {
	Logger *slog.Logger
}

// Decode is shorthand for a zero Decoder's Decode.
func Decode(b []byte) (*Model, error) {
	return Decoder{}.Decode(b)
}

// Decode parses b. Every byte the model keeps is copied, so b may be reused
// once Decode returns. No partial model is returned on error.
func (d Decoder) Decode(b []byte) (*Model, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return nil, &FormatError{Section: "header", Offset: 0, Err: err}
	}
	m := &Model{
		Unknown0A: h.Unknown0A,
		Unknown30: h.Unknown30,
		Unknown34: h.Unknown34,
	}

	for _, slot := range headerSlots {
		off := int(h.Offsets[slot.kind])
		if slot.kind == KindGeo || off == 0 {
			continue
		}
		if off > len(b) {
			return nil, &FormatError{Section: slot.kind.String(), Offset: off,
				Err: fmt.Errorf("offset past end of 0x%X-byte file: %w", len(b), ErrTruncated)}
		}
		s, err := decodeSection(slot.kind, b[off:])
		if err != nil {
			return nil, &FormatError{Section: slot.kind.String(), Offset: off, Err: err}
		}
		m.SetSection(s)
	}

	tail := m.tailStart()
	if tail > len(b) {
		return nil, &FormatError{Section: "tail", Offset: tail,
			Err: fmt.Errorf("sections need 0x%X bytes, file has 0x%X: %w", tail, len(b), ErrTruncated)}
	}
	m.Tail = slices.Clone(b[tail:])

	if g := h.Offsets[KindGeo]; g != 0 {
		if int(g) >= tail {
			m.LegacyGeo = &GeoPointer{InTail: true, Offset: g - uint32(tail)}
		} else {
			m.LegacyGeo = &GeoPointer{Offset: g}
		}
	}

	d.logDecoded(m)
	return m, nil
}

func (d Decoder) logDecoded(m *Model) {
	log := d.Logger
	if log == nil || !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	if m.Vertices != nil {
		if v, ok := m.Vertices.PreservedGlobalNorm(); ok {
			log.Debug("preserving stored global norm", "stored", v, "vertices", len(m.Vertices.Vertices))
		}
	}
	if m.Textures != nil {
		for i, t := range m.Textures.Textures {
			if !t.Format.Known() {
				log.Debug("unknown texture format tag", "texture", i, "format", t.Format)
			}
		}
	}
	if len(m.Tail) > 0 {
		log.Debug("carrying unparsed tail", "bytes", len(m.Tail), "geo", m.LegacyGeo != nil)
	}
}
