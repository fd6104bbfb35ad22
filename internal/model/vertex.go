package model

import (
	"fmt"
	"math"

	"bk-asset-codec/internal/mathutil"
)

const (
	vertexListHeaderSize = 0x18
	vertexSize           = 0x10
)

// Vertex is the console's 16-byte vertex record.
type Vertex struct {
	Position [3]int16
	Flag     uint16
	TexCoord [2]int16
	Color    [4]uint8
}

// VertexStats is the bounding information stored ahead of the vertices. It
// is derived from the vertex data on every encode.
type VertexStats struct {
	Min        [3]int16
	Max        [3]int16
	Center     [3]int16
	LocalNorm  int16
	GlobalNorm int16
}

// VertexList is the vertex section.
//
// Stored files sometimes carry a global norm that disagrees with the one
// recomputed from their vertices. That stored value is kept and re-emitted
// so such files round-trip exactly; the other statistics are always
// recomputed.
type VertexList struct {
	Vertices []Vertex

	storedGlobalNorm int16
	keepGlobalNorm   bool
}

// NewVertexList wraps vertices with freshly computed statistics.
func NewVertexList(v []Vertex) *VertexList {
	return &VertexList{Vertices: v}
}

func (*VertexList) Kind() Kind { return KindVertex }

func (l *VertexList) ByteSize() int {
	return vertexListHeaderSize + vertexSize*len(l.Vertices)
}

// PreservedGlobalNorm reports the stored global norm when it is being kept
// in place of the recomputed one.
func (l *VertexList) PreservedGlobalNorm() (int16, bool) {
	return l.storedGlobalNorm, l.keepGlobalNorm
}

// ResetGlobalNorm drops a preserved global norm so the next encode writes the
// recomputed value.
func (l *VertexList) ResetGlobalNorm() { l.keepGlobalNorm = false }

// Stats computes the header statistics from the current vertices. An empty
// list has all-zero statistics.
func (l *VertexList) Stats() VertexStats {
	var s VertexStats
	if len(l.Vertices) == 0 {
		return s
	}
	s.Min = l.Vertices[0].Position
	s.Max = l.Vertices[0].Position
	for _, v := range l.Vertices[1:] {
		for i, c := range v.Position {
			s.Min[i] = min(s.Min[i], c)
			s.Max[i] = max(s.Max[i], c)
		}
	}
	for i := range s.Center {
		s.Center[i] = int16((int32(s.Max[i]) + int32(s.Min[i])) / 2)
	}

	center := mathutil.FromInt16(s.Center)
	var local, global float64
	for _, v := range l.Vertices {
		p := mathutil.FromInt16(v.Position)
		local = math.Max(local, p.Sub(center).Len())
		global = math.Max(global, p.Len())
	}
	s.LocalNorm = mathutil.SatInt16(local)
	s.GlobalNorm = mathutil.SatInt16(global)
	if l.keepGlobalNorm {
		s.GlobalNorm = l.storedGlobalNorm
	}
	return s
}

func (l *VertexList) Encode() []byte {
	s := l.Stats()
	b := make([]byte, 0, l.ByteSize())
	b = appendVec3i16(b, s.Min)
	b = appendVec3i16(b, s.Max)
	b = appendVec3i16(b, s.Center)
	b = appendI16(b, s.LocalNorm)
	b = appendU16(b, uint16(len(l.Vertices)))
	b = appendI16(b, s.GlobalNorm)
	for _, v := range l.Vertices {
		b = appendVec3i16(b, v.Position)
		b = appendU16(b, v.Flag)
		b = appendI16(b, v.TexCoord[0])
		b = appendI16(b, v.TexCoord[1])
		b = append(b, v.Color[:]...)
	}
	return b
}

// DecodeVertexList reads the vertex section. The stored min, max, center and
// local norm are discarded; the global norm is kept only when it differs from
// the recomputed value.
func DecodeVertexList(b []byte) (*VertexList, error) {
	r := newReader(b)
	r.off = 0x14
	count := int(r.u16())
	stored := r.i16()
	l := &VertexList{}
	l.Vertices = readRecords(r, "vertices", count, vertexSize, func(r *reader) Vertex {
		var v Vertex
		v.Position = r.vec3i16()
		v.Flag = r.u16()
		v.TexCoord = [2]int16{r.i16(), r.i16()}
		r.copyInto(v.Color[:])
		return v
	})
	if r.err != nil {
		return nil, fmt.Errorf("vertex list: %w", r.err)
	}
	if stored != l.Stats().GlobalNorm {
		l.storedGlobalNorm = stored
		l.keepGlobalNorm = true
	}
	return l, nil
}
