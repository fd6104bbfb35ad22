package model

import "fmt"

// Mesh groups vertex indices under an identifier.
type Mesh struct {
	UID      uint16
	Vertices []uint16
}

func (m Mesh) size() int { return 4 + 2*len(m.Vertices) }

// MeshList is the mesh section (header slot 0x24). The mesh count and each
// mesh's vertex count are u16.
type MeshList struct {
	Meshes []Mesh
}

func (*MeshList) Kind() Kind { return KindMesh }

func (l *MeshList) ByteSize() int {
	n := 2
	for _, m := range l.Meshes {
		n += m.size()
	}
	return align8(n)
}

func (l *MeshList) Encode() []byte {
	b := make([]byte, 0, l.ByteSize())
	b = appendU16(b, uint16(len(l.Meshes)))
	for _, m := range l.Meshes {
		b = appendU16(b, m.UID)
		b = appendU16(b, uint16(len(m.Vertices)))
		for _, v := range m.Vertices {
			b = appendU16(b, v)
		}
	}
	return pad(b)
}

func DecodeMeshList(b []byte) (*MeshList, error) {
	r := newReader(b)
	count := int(r.u16())
	l := &MeshList{}
	for i := 0; i < count && r.err == nil; i++ {
		m := Mesh{UID: r.u16()}
		n := int(r.u16())
		m.Vertices = readRecords(r, fmt.Sprintf("mesh %d indices", i), n, 2, (*reader).u16)
		l.Meshes = append(l.Meshes, m)
	}
	if r.err != nil {
		return nil, fmt.Errorf("mesh list: %w", r.err)
	}
	return l, nil
}
