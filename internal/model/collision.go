package model

import "fmt"

const collisionHeaderSize = 0x18

// CollisionGroup is a run of triangles in the collision grid.
type CollisionGroup struct {
	TriStart int16
	Size     int16
}

// CollisionTri is one collision triangle: three vertex indices, an unknown
// short and the surface flags.
type CollisionTri struct {
	Vertex [3]int16
	Unk6   int16
	Flags  uint32
}

// CollisionList is the collision section: a spatial grid of triangle groups
// over the model's bounds. Groups and Triangles are each counted in a u16,
// so at most 65535 of each can be encoded.
type CollisionList struct {
	Min        [3]int16
	Max        [3]int16
	YStride    int16
	ZStride    int16
	Scale      int16
	Reserved16 [2]byte
	Groups     []CollisionGroup
	Triangles  []CollisionTri
}

func (*CollisionList) Kind() Kind { return KindCollision }

func (c *CollisionList) ByteSize() int {
	return align8(collisionHeaderSize + 4*len(c.Groups) + 0xC*len(c.Triangles))
}

func (c *CollisionList) Encode() []byte {
	b := make([]byte, 0, c.ByteSize())
	b = appendVec3i16(b, c.Min)
	b = appendVec3i16(b, c.Max)
	b = appendI16(b, c.YStride)
	b = appendI16(b, c.ZStride)
	b = appendU16(b, uint16(len(c.Groups)))
	b = appendI16(b, c.Scale)
	b = appendU16(b, uint16(len(c.Triangles)))
	b = append(b, c.Reserved16[:]...)
	for _, g := range c.Groups {
		b = appendI16(b, g.TriStart)
		b = appendI16(b, g.Size)
	}
	for _, t := range c.Triangles {
		b = appendVec3i16(b, t.Vertex)
		b = appendI16(b, t.Unk6)
		b = appendU32(b, t.Flags)
	}
	return pad(b)
}

func DecodeCollisionList(b []byte) (*CollisionList, error) {
	r := newReader(b)
	c := &CollisionList{
		Min:     r.vec3i16(),
		Max:     r.vec3i16(),
		YStride: r.i16(),
		ZStride: r.i16(),
	}
	groups := int(r.u16())
	c.Scale = r.i16()
	tris := int(r.u16())
	r.copyInto(c.Reserved16[:])

	c.Groups = readRecords(r, "collision groups", groups, 4, func(r *reader) CollisionGroup {
		return CollisionGroup{TriStart: r.i16(), Size: r.i16()}
	})
	c.Triangles = readRecords(r, "collision triangles", tris, 0xC, func(r *reader) CollisionTri {
		return CollisionTri{Vertex: r.vec3i16(), Unk6: r.i16(), Flags: r.u32()}
	})
	if r.err != nil {
		return nil, fmt.Errorf("collision list: %w", r.err)
	}
	return c, nil
}
