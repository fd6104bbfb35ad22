// Package bkasset reads and writes model asset files: a fixed offset header
// followed by optional sections, re-encoded byte for byte.
package bkasset

import (
	"fmt"

	"bk-asset-codec/internal/model"
	"bk-asset-codec/internal/pixel"
	"bk-asset-codec/internal/rarezip"
)

type (
	Model       = model.Model
	Header      = model.Header
	Decoder     = model.Decoder
	Section     = model.Section
	Kind        = model.Kind
	FormatError = model.FormatError
	GeoPointer  = model.GeoPointer

	TextureList         = model.TextureList
	TextureHeader       = model.TextureHeader
	DisplayList         = model.DisplayList
	Command             = model.Command
	VertexList          = model.VertexList
	Vertex              = model.Vertex
	VertexStats         = model.VertexStats
	Unk14List           = model.Unk14List
	Unk14Record         = model.Unk14Record
	CollisionList       = model.CollisionList
	CollisionGroup      = model.CollisionGroup
	CollisionTri        = model.CollisionTri
	MeshList            = model.MeshList
	Mesh                = model.Mesh
	Unk20List           = model.Unk20List
	Unk20Element        = model.Unk20Element
	Unk28List           = model.Unk28List
	Unk28Element        = model.Unk28Element
	AnimationList       = model.AnimationList
	AnimationBone       = model.AnimationBone
	AnimatedTextureList = model.AnimatedTextureList
	AnimatedTexture     = model.AnimatedTexture

	Grid        = pixel.Grid
	PixelFormat = pixel.Format
)

var (
	ErrBadMagic      = model.ErrBadMagic
	ErrTruncated     = model.ErrTruncated
	ErrCountMismatch = model.ErrCountMismatch
	ErrCountOverflow = model.ErrCountOverflow
)

// Decode parses a model file.
func Decode(b []byte) (*Model, error) { return model.Decode(b) }

// Encode serializes m. For any model returned by Decode the output equals
// the decoded input.
func Encode(m *Model) []byte { return m.Encode() }

// DecodeCompressed unwraps an 11 72 compressed asset and decodes the model
// inside.
func DecodeCompressed(b []byte) (*Model, error) {
	raw, err := rarezip.Decompress(b)
	if err != nil {
		return nil, err
	}
	m, err := model.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("bkasset: compressed model: %w", err)
	}
	return m, nil
}

// EncodeCompressed encodes m and wraps it at the best flate level.
func EncodeCompressed(m *Model) ([]byte, error) {
	return rarezip.Compress(m.Encode(), 0)
}
