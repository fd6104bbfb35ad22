package model

import "fmt"

// Command is one opaque 8-byte display list command.
type Command [8]byte

// DisplayList is the gfx section. The commands are carried without
// interpretation.
type DisplayList struct {
	Filler   [4]byte
	Commands []Command
}

func (*DisplayList) Kind() Kind { return KindDisplayList }

func (d *DisplayList) ByteSize() int { return 8 + 8*len(d.Commands) }

func (d *DisplayList) Encode() []byte {
	b := make([]byte, 0, d.ByteSize())
	b = appendU32(b, uint32(len(d.Commands)))
	b = append(b, d.Filler[:]...)
	for _, c := range d.Commands {
		b = append(b, c[:]...)
	}
	return b
}

func DecodeDisplayList(b []byte) (*DisplayList, error) {
	r := newReader(b)
	count := int(r.u32())
	d := &DisplayList{}
	r.copyInto(d.Filler[:])
	d.Commands = readRecords(r, "commands", count, 8, func(r *reader) Command {
		var c Command
		r.copyInto(c[:])
		return c
	})
	if r.err != nil {
		return nil, fmt.Errorf("display list: %w", r.err)
	}
	return d, nil
}
