package model

import "fmt"

const (
	animatedTextureSlots    = 4
	animatedTextureListSize = 0x20
)

// AnimatedTexture describes a texture flip-book.
type AnimatedTexture struct {
	FrameSize  int16
	FrameCount int16
	FPS        float32
}

// AnimatedTextureList is the fixed four-slot animated texture table. A nil
// slot is empty and encodes as eight zero bytes; on decode, any slot with a
// zero frame size is treated as empty.
type AnimatedTextureList struct {
	Slots [animatedTextureSlots]*AnimatedTexture
}

func (*AnimatedTextureList) Kind() Kind { return KindAnimatedTexture }

func (*AnimatedTextureList) ByteSize() int { return animatedTextureListSize }

func (l *AnimatedTextureList) Encode() []byte {
	b := make([]byte, 0, animatedTextureListSize)
	for _, s := range l.Slots {
		if s == nil {
			b = append(b, make([]byte, 8)...)
			continue
		}
		b = appendI16(b, s.FrameSize)
		b = appendI16(b, s.FrameCount)
		b = appendF32(b, s.FPS)
	}
	return b
}

func DecodeAnimatedTextureList(b []byte) (*AnimatedTextureList, error) {
	r := newReader(b)
	l := &AnimatedTextureList{}
	for i := range l.Slots {
		s := AnimatedTexture{FrameSize: r.i16(), FrameCount: r.i16(), FPS: r.f32()}
		if s.FrameSize != 0 {
			l.Slots[i] = &s
		}
	}
	if r.err != nil {
		return nil, fmt.Errorf("animated texture list: %w", r.err)
	}
	return l, nil
}
