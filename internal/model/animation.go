package model

import "fmt"

// AnimationBone places one bone relative to its parent transform.
type AnimationBone struct {
	Position [3]float32
	BoneID   int16
	ParentID int16
}

// AnimationList is the animation section (header slot 0x18). Floats are
// carried bit-exact. The bone count is a u16.
type AnimationList struct {
	Unk0      float32
	Reserved6 [2]byte
	Bones     []AnimationBone
}

func (*AnimationList) Kind() Kind { return KindAnimation }

func (l *AnimationList) ByteSize() int { return 8 + 0x10*len(l.Bones) }

func (l *AnimationList) Encode() []byte {
	b := make([]byte, 0, l.ByteSize())
	b = appendF32(b, l.Unk0)
	b = appendU16(b, uint16(len(l.Bones)))
	b = append(b, l.Reserved6[:]...)
	for _, bone := range l.Bones {
		for _, c := range bone.Position {
			b = appendF32(b, c)
		}
		b = appendI16(b, bone.BoneID)
		b = appendI16(b, bone.ParentID)
	}
	return b
}

func DecodeAnimationList(b []byte) (*AnimationList, error) {
	r := newReader(b)
	l := &AnimationList{Unk0: r.f32()}
	count := int(r.u16())
	r.copyInto(l.Reserved6[:])
	l.Bones = readRecords(r, "animation bones", count, 0x10, func(r *reader) AnimationBone {
		return AnimationBone{
			Position: [3]float32{r.f32(), r.f32(), r.f32()},
			BoneID:   r.i16(),
			ParentID: r.i16(),
		}
	})
	if r.err != nil {
		return nil, fmt.Errorf("animation list: %w", r.err)
	}
	return l, nil
}
