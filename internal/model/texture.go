package model

import (
	"errors"
	"fmt"

	"bk-asset-codec/internal/pixel"
)

const (
	textureListHeaderSize = 8
	textureHeaderSize     = 0x10
)

// ErrGridMismatch is returned when a grid cannot be stored in an existing
// texture slot.
var ErrGridMismatch = errors.New("grid does not match texture slot")

// TextureHeader describes one texture inside the list's data blob. Offset
// is relative to the start of the blob. Unknown format tags are kept as-is.
type TextureHeader struct {
	Offset     uint32
	Format     pixel.Format
	Reserved06 [2]byte
	Width      uint8
	Height     uint8
	Reserved0A [6]byte
}

// TextureList is the texture section: a table of texture headers followed by
// one blob holding every texture's palette and pixel data.
type TextureList struct {
	Reserved06 [2]byte
	Textures   []TextureHeader
	Data       []byte
}

func (*TextureList) Kind() Kind { return KindTexture }

// byteCount is the unpadded section length stored in the first field.
func (t *TextureList) byteCount() int {
	return textureListHeaderSize + textureHeaderSize*len(t.Textures) + len(t.Data)
}

func (t *TextureList) ByteSize() int { return align8(t.byteCount()) }

func (t *TextureList) Encode() []byte {
	b := make([]byte, 0, t.ByteSize())
	b = appendU32(b, uint32(t.byteCount()))
	b = appendU16(b, uint16(len(t.Textures)))
	b = append(b, t.Reserved06[:]...)
	for _, h := range t.Textures {
		b = appendU32(b, h.Offset)
		b = appendU16(b, uint16(h.Format))
		b = append(b, h.Reserved06[:]...)
		b = append(b, h.Width, h.Height)
		b = append(b, h.Reserved0A[:]...)
	}
	b = append(b, t.Data...)
	return pad(b)
}

// DecodeTextureList reads the section length first and never looks past it.
func DecodeTextureList(b []byte) (*TextureList, error) {
	r := newReader(b)
	size := int(r.u32())
	count := int(r.u16())
	t := &TextureList{}
	r.copyInto(t.Reserved06[:])
	if r.err != nil {
		return nil, fmt.Errorf("texture list: %w", r.err)
	}
	if size > len(b) {
		return nil, fmt.Errorf("texture list: length 0x%X exceeds 0x%X remaining: %w", size, len(b), ErrTruncated)
	}
	if need := textureListHeaderSize + textureHeaderSize*count; size < need {
		return nil, fmt.Errorf("texture list: length 0x%X too small for %d headers: %w", size, count, ErrCountMismatch)
	}
	r.data = b[:size]

	t.Textures = readRecords(r, "texture headers", count, textureHeaderSize, func(r *reader) TextureHeader {
		var h TextureHeader
		h.Offset = r.u32()
		h.Format = pixel.Format(r.u16())
		r.copyInto(h.Reserved06[:])
		h.Width = r.u8()
		h.Height = r.u8()
		r.copyInto(h.Reserved0A[:])
		return h
	})
	if r.err != nil {
		return nil, fmt.Errorf("texture list: %w", r.err)
	}
	t.Data = make([]byte, size-r.off)
	r.copyInto(t.Data)
	return t, nil
}

// dataEnd is where texture i's bytes stop inside Data: the next higher
// texture offset, or the end of the blob.
func (t *TextureList) dataEnd(i int) int {
	end := len(t.Data)
	start := int(t.Textures[i].Offset)
	for _, h := range t.Textures {
		if o := int(h.Offset); o > start && o < end {
			end = o
		}
	}
	return end
}

// Grid decodes texture i.
func (t *TextureList) Grid(i int) (*pixel.Grid, error) {
	if i < 0 || i >= len(t.Textures) {
		return nil, fmt.Errorf("texture %d of %d: %w", i, len(t.Textures), ErrCountMismatch)
	}
	h := t.Textures[i]
	start := int(h.Offset)
	if start > len(t.Data) {
		return nil, fmt.Errorf("texture %d offset 0x%X past blob end 0x%X: %w", i, start, len(t.Data), ErrTruncated)
	}
	g, err := pixel.DecodeGrid(h.Format, int(h.Width), int(h.Height), t.Data[start:t.dataEnd(i)])
	if err != nil {
		return nil, fmt.Errorf("texture %d: %w", i, err)
	}
	return g, nil
}

// SetGrid overwrites texture i in place. The grid must keep the slot's
// format and dimensions.
func (t *TextureList) SetGrid(i int, g *pixel.Grid) error {
	if i < 0 || i >= len(t.Textures) {
		return fmt.Errorf("texture %d of %d: %w", i, len(t.Textures), ErrCountMismatch)
	}
	h := t.Textures[i]
	if g.Format != h.Format || g.Width != int(h.Width) || g.Height != int(h.Height) {
		return fmt.Errorf("texture %d is %s %dx%d, grid is %s %dx%d: %w",
			i, h.Format, h.Width, h.Height, g.Format, g.Width, g.Height, ErrGridMismatch)
	}
	enc, err := g.Encode()
	if err != nil {
		return err
	}
	start := int(h.Offset)
	if start+len(enc) > len(t.Data) {
		return fmt.Errorf("texture %d: 0x%X bytes at 0x%X overrun blob: %w", i, len(enc), start, ErrTruncated)
	}
	copy(t.Data[start:], enc)
	return nil
}

// AddTexture appends a grid to the blob at the next eight-byte boundary and
// returns its index.
func (t *TextureList) AddTexture(g *pixel.Grid) (int, error) {
	if g.Width > 0xFF || g.Height > 0xFF {
		return 0, fmt.Errorf("texture %dx%d exceeds 255x255: %w", g.Width, g.Height, ErrGridMismatch)
	}
	enc, err := g.Encode()
	if err != nil {
		return 0, err
	}
	t.Data = pad(t.Data)
	t.Textures = append(t.Textures, TextureHeader{
		Offset: uint32(len(t.Data)),
		Format: g.Format,
		Width:  uint8(g.Width),
		Height: uint8(g.Height),
	})
	t.Data = append(t.Data, enc...)
	return len(t.Textures) - 1, nil
}
