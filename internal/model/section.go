package model

// Kind identifies one of the sections a model header can point at. Kinds
// are declared in packing order: encoding always lays sections out in this
// sequence, whatever order the source file used.
type Kind int

const (
	KindTexture Kind = iota
	KindDisplayList
	KindVertex
	KindUnk14
	KindCollision
	KindMesh
	KindUnk20
	KindUnk28
	KindAnimation
	KindAnimatedTexture
	// KindGeo is the legacy geometry layout. It has a header slot but is
	// never packed as a section.
	KindGeo

	numKinds
)

var kindNames = [numKinds]string{
	KindTexture:         "texture list",
	KindDisplayList:     "display list",
	KindVertex:          "vertex list",
	KindUnk14:           "unk14 list",
	KindCollision:       "collision list",
	KindMesh:            "mesh list",
	KindUnk20:           "unk20 list",
	KindUnk28:           "unk28 list",
	KindAnimation:       "animation list",
	KindAnimatedTexture: "animated texture list",
	KindGeo:             "geo layout",
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown section"
	}
	return kindNames[k]
}

// PackingOrder lists the packable kinds in the order Encode writes them.
var PackingOrder = []Kind{
	KindTexture,
	KindDisplayList,
	KindVertex,
	KindUnk14,
	KindCollision,
	KindMesh,
	KindUnk20,
	KindUnk28,
	KindAnimation,
	KindAnimatedTexture,
}

// Section is a decoded, re-encodable block of the model. ByteSize is always
// len(Encode()), padding included, and always a multiple of eight.
type Section interface {
	Kind() Kind
	ByteSize() int
	Encode() []byte
}

// decodeSection dispatches to the per-kind decoder. b starts at the
// section's offset and runs to the end of the file.
func decodeSection(k Kind, b []byte) (Section, error) {
	switch k {
	case KindTexture:
		return DecodeTextureList(b)
	case KindDisplayList:
		return DecodeDisplayList(b)
	case KindVertex:
		return DecodeVertexList(b)
	case KindUnk14:
		return DecodeUnk14List(b)
	case KindCollision:
		return DecodeCollisionList(b)
	case KindMesh:
		return DecodeMeshList(b)
	case KindUnk20:
		return DecodeUnk20List(b)
	case KindUnk28:
		return DecodeUnk28List(b)
	case KindAnimation:
		return DecodeAnimationList(b)
	case KindAnimatedTexture:
		return DecodeAnimatedTextureList(b)
	}
	return nil, nil
}
