// Package scene exports decoded model geometry as glTF.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"bk-asset-codec/internal/mathutil"
	"bk-asset-codec/internal/model"
)

// ErrNoGeometry is returned for models with neither vertices nor collision.
var ErrNoGeometry = errors.New("scene: model has no geometry")

// Build converts m into a glTF document. The vertex list becomes a coloured
// point cloud, collision triangles a flat-shaded mesh over those vertices,
// and animation bones a node hierarchy.
func Build(m *model.Model, name string) (*gltf.Document, error) {
	if m.Vertices == nil || len(m.Vertices.Vertices) == 0 {
		if m.Collision == nil || len(m.Collision.Triangles) == 0 {
			return nil, ErrNoGeometry
		}
		return nil, fmt.Errorf("scene: %d collision triangles but no vertices", len(m.Collision.Triangles))
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "bk-asset-codec"
	root := &gltf.Node{Name: name}
	doc.Nodes = []*gltf.Node{root}
	doc.Scenes[0].Nodes = []uint32{0}

	verts := m.Vertices.Vertices
	doc.Meshes = append(doc.Meshes, pointCloud(doc, verts))
	root.Children = append(root.Children, addNode(doc, &gltf.Node{Name: "vertices", Mesh: gltf.Index(0)}))

	if m.Collision != nil && len(m.Collision.Triangles) > 0 {
		mesh, err := collisionMesh(doc, verts, m.Collision.Triangles)
		if err != nil {
			return nil, err
		}
		doc.Meshes = append(doc.Meshes, mesh)
		idx := uint32(len(doc.Meshes) - 1)
		root.Children = append(root.Children, addNode(doc, &gltf.Node{Name: "collision", Mesh: gltf.Index(idx)}))
	}

	if m.Animation != nil && len(m.Animation.Bones) > 0 {
		root.Children = append(root.Children, skeleton(doc, m.Animation.Bones)...)
	}
	return doc, nil
}

func addNode(doc *gltf.Document, n *gltf.Node) uint32 {
	doc.Nodes = append(doc.Nodes, n)
	return uint32(len(doc.Nodes) - 1)
}

func pointCloud(doc *gltf.Document, verts []model.Vertex) *gltf.Mesh {
	positions := make([][3]float32, len(verts))
	colors := make([][4]float32, len(verts))
	for i, v := range verts {
		positions[i] = mathutil.FromInt16(v.Position).Float32()
		for c := range colors[i] {
			colors[i][c] = float32(v.Color[c]) / 255
		}
	}
	pos := modeler.WritePosition(doc, positions)
	col := modeler.WriteColor(doc, colors)
	return &gltf.Mesh{
		Name: "vertices",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{
				gltf.POSITION: uint32(pos),
				gltf.COLOR_0:  uint32(col),
			},
			Mode: gltf.PrimitivePoints,
		}},
	}
}

// collisionMesh emits three unshared corners per triangle so every face gets
// its own flat normal.
func collisionMesh(doc *gltf.Document, verts []model.Vertex, tris []model.CollisionTri) (*gltf.Mesh, error) {
	positions := make([][3]float32, 0, 3*len(tris))
	normals := make([][3]float32, 0, 3*len(tris))
	indices := make([]uint32, 0, 3*len(tris))
	for i, t := range tris {
		var p [3]mathutil.Vec3
		for c, vi := range t.Vertex {
			if vi < 0 || int(vi) >= len(verts) {
				return nil, fmt.Errorf("scene: collision triangle %d uses vertex %d of %d", i, vi, len(verts))
			}
			p[c] = mathutil.FromInt16(verts[vi].Position)
		}
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0])).Normalize().Float32()
		for c := range p {
			indices = append(indices, uint32(len(positions)))
			positions = append(positions, p[c].Float32())
			normals = append(normals, n)
		}
	}

	pos := modeler.WritePosition(doc, positions)
	nrm := modeler.WriteNormal(doc, normals)
	ind := modeler.WriteIndices(doc, indices)

	doc.Materials = append(doc.Materials, &gltf.Material{
		Name: "collision",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 0.3, 0.3, 0.5},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode:   gltf.AlphaBlend,
		DoubleSided: true,
	})
	return &gltf.Mesh{
		Name: "collision",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{
				gltf.POSITION: uint32(pos),
				gltf.NORMAL:   uint32(nrm),
			},
			Indices:  gltf.Index(uint32(ind)),
			Material: gltf.Index(uint32(len(doc.Materials) - 1)),
		}},
	}, nil
}

// skeleton adds one node per bone, parented by ParentID. A bone can only
// hang off a bone listed before it, which keeps the hierarchy acyclic. It
// returns the bones left without a parent.
func skeleton(doc *gltf.Document, bones []model.AnimationBone) []uint32 {
	byID := make(map[int16]uint32, len(bones))
	nodes := make([]uint32, len(bones))
	for i, b := range bones {
		nodes[i] = addNode(doc, &gltf.Node{
			Name:        fmt.Sprintf("bone_%d", b.BoneID),
			Translation: b.Position,
		})
		byID[b.BoneID] = nodes[i]
	}
	var roots []uint32
	for i, b := range bones {
		parent, ok := byID[b.ParentID]
		if b.ParentID < 0 || !ok || parent >= nodes[i] {
			roots = append(roots, nodes[i])
			continue
		}
		p := doc.Nodes[parent]
		p.Children = append(p.Children, nodes[i])
	}
	return roots
}

// WriteGLB encodes doc as binary glTF.
func WriteGLB(w io.Writer, doc *gltf.Document) error {
	enc := gltf.NewEncoder(w)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("scene: encode glb: %w", err)
	}
	return nil
}

// SaveGLB writes doc to path as binary glTF.
func SaveGLB(path string, doc *gltf.Document) error {
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("scene: save %s: %w", path, err)
	}
	return nil
}

// Export builds m's scene and saves it to path as binary glTF, creating
// parent directories. The root node is named after the file.
func Export(m *model.Model, path string) error {
	doc, err := Build(m, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return SaveGLB(path, doc)
}
