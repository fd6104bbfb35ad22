// Package geo parses the legacy geometry-command tree some model files still
// carry after their packed sections. The tree is a set of sibling chains
// linked by relative offsets; it is decoded into an arena keyed by each
// command's byte offset, so shared sub-trees are decoded once.
package geo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"math"
)

var (
	ErrUnknownCommand = errors.New("geo: unknown command")
	ErrTruncated      = errors.New("geo: truncated")
)

// Command is the 32-bit opcode at the start of every node.
type Command uint32

const (
	CmdSort     Command = 0x0
	CmdBone     Command = 0x2
	CmdLoadDL   Command = 0x3
	CmdSkinning Command = 0x5
	CmdRefPoint Command = 0xA
	Cmd0C       Command = 0xC
	Cmd0F       Command = 0xF
)

func (c Command) String() string {
	switch c {
	case CmdSort:
		return "sort"
	case CmdBone:
		return "bone"
	case CmdLoadDL:
		return "load-dl"
	case CmdSkinning:
		return "skinning"
	case CmdRefPoint:
		return "ref-point"
	case Cmd0C:
		return "cmd-0C"
	case Cmd0F:
		return "cmd-0F"
	}
	return fmt.Sprintf("cmd-%X", uint32(c))
}

// minSize is the number of bytes each command reads from its own offset.
func (c Command) minSize() (int, bool) {
	switch c {
	case CmdSort, CmdRefPoint:
		return 0x18, true
	case CmdBone, CmdLoadDL, CmdSkinning:
		return 0xA, true
	case Cmd0C, Cmd0F:
		return 0x8, true
	}
	return 0, false
}

// Node is one decoded command. Offsets are absolute within the parsed
// buffer; zero in Next or Child means none. Only the fields belonging to the
// node's command are set.
type Node struct {
	Offset  int
	Command Command
	Next    int
	Child   int

	Position    [3]float32 // sort, ref-point
	MatrixIndex uint8      // bone
	DisplayList int16      // load-dl
	DLIndices   []int16    // skinning
	RefA, RefB  int16      // ref-point
}

// Arena holds every node reachable from Root.
type Arena struct {
	Root  int
	Nodes map[int]*Node
}

// Chain yields the node at off and each following sibling.
func (a *Arena) Chain(off int) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for {
			n := a.Nodes[off]
			if n == nil || !yield(n) || n.Next == 0 {
				return
			}
			off = n.Next
		}
	}
}

// Children yields the first-level children of n.
func (a *Arena) Children(n *Node) iter.Seq[*Node] {
	if n.Child == 0 {
		return func(func(*Node) bool) {}
	}
	return a.Chain(n.Child)
}

// Walk visits every node reachable from the root depth-first, each once.
func (a *Arena) Walk(fn func(n *Node, depth int) bool) {
	seen := make(map[int]bool)
	var visit func(off, depth int) bool
	visit = func(off, depth int) bool {
		for n := range a.Chain(off) {
			if seen[n.Offset] {
				return true
			}
			seen[n.Offset] = true
			if !fn(n, depth) {
				return false
			}
			if n.Child != 0 && !visit(n.Child, depth+1) {
				return false
			}
		}
		return true
	}
	visit(a.Root, 0)
}

// Parse decodes the tree whose first chain starts at root.
func Parse(buf []byte, root int) (*Arena, error) {
	a := &Arena{Root: root, Nodes: make(map[int]*Node)}
	pending := []int{root}
	for len(pending) > 0 {
		off := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := a.Nodes[off]; ok {
			continue
		}
		n, err := parseNode(buf, off)
		if err != nil {
			return nil, err
		}
		a.Nodes[off] = n
		if n.Next != 0 {
			pending = append(pending, n.Next)
		}
		if n.Child != 0 {
			pending = append(pending, n.Child)
		}
	}
	return a, nil
}

func parseNode(buf []byte, off int) (*Node, error) {
	if off < 0 || off+8 > len(buf) {
		return nil, fmt.Errorf("node at 0x%X in 0x%X bytes: %w", off, len(buf), ErrTruncated)
	}
	b := buf[off:]
	n := &Node{Offset: off, Command: Command(binary.BigEndian.Uint32(b))}
	need, ok := n.Command.minSize()
	if !ok {
		return nil, fmt.Errorf("%s at 0x%X: %w", n.Command, off, ErrUnknownCommand)
	}
	if need > len(b) {
		return nil, fmt.Errorf("%s at 0x%X needs 0x%X bytes: %w", n.Command, off, need, ErrTruncated)
	}
	if next := binary.BigEndian.Uint32(b[4:]); next != 0 {
		n.Next = off + int(next)
	}

	i16 := func(p int) int16 { return int16(binary.BigEndian.Uint16(b[p:])) }
	f32 := func(p int) float32 { return math.Float32frombits(binary.BigEndian.Uint32(b[p:])) }

	switch n.Command {
	case CmdSort:
		if c := i16(8); c != 0 {
			n.Child = off + int(c)
		}
		n.Position = [3]float32{f32(0xC), f32(0x10), f32(0x14)}
	case CmdBone:
		if c := b[8]; c != 0 {
			n.Child = off + int(c)
		}
		n.MatrixIndex = b[9]
	case CmdLoadDL:
		n.DisplayList = i16(8)
	case CmdSkinning:
		n.DLIndices = append(n.DLIndices, i16(8))
		for p := 0xA; p+2 <= len(b); p += 2 {
			v := i16(p)
			if v == 0 {
				break
			}
			n.DLIndices = append(n.DLIndices, v)
		}
	case CmdRefPoint:
		n.RefA, n.RefB = i16(8), i16(0xA)
		n.Position = [3]float32{f32(0xC), f32(0x10), f32(0x14)}
	}
	if n.Child < 0 || n.Next < 0 {
		return nil, fmt.Errorf("%s at 0x%X links outside the buffer: %w", n.Command, off, ErrTruncated)
	}
	return n, nil
}
