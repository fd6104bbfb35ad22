package geo

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

// node builds a command of size bytes with its next-delta set.
func node(cmd Command, size int, next uint32) []byte {
	b := make([]byte, size)
	binary.BigEndian.PutUint32(b, uint32(cmd))
	binary.BigEndian.PutUint32(b[4:], next)
	return b
}

func TestParseTree(t *testing.T) {
	// 0x00 sort, child at +0x18, sibling at +0x30
	// 0x18 load-dl 0x120 (last in child chain)
	// 0x30 bone, child at +0x10, matrix 7
	// 0x40 skinning 3, 4, 0
	sort := node(CmdSort, 0x18, 0x30)
	binary.BigEndian.PutUint16(sort[8:], 0x18)
	binary.BigEndian.PutUint32(sort[0xC:], math.Float32bits(1.5))

	load := node(CmdLoadDL, 0x18, 0)
	binary.BigEndian.PutUint16(load[8:], 0x120)

	bone := node(CmdBone, 0x10, 0)
	bone[8], bone[9] = 0x10, 7

	skin := node(CmdSkinning, 0x10, 0)
	binary.BigEndian.PutUint16(skin[8:], 3)
	binary.BigEndian.PutUint16(skin[0xA:], 4)

	buf := append(append(append(sort, load...), bone...), skin...)
	a, err := Parse(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Nodes) != 4 {
		t.Fatalf("nodes = %d, want 4", len(a.Nodes))
	}

	root := a.Nodes[0]
	if root.Child != 0x18 || root.Next != 0x30 || root.Position[0] != 1.5 {
		t.Errorf("root = %+v", root)
	}
	if got := a.Nodes[0x18].DisplayList; got != 0x120 {
		t.Errorf("display list = 0x%X", got)
	}
	if b := a.Nodes[0x30]; b.Child != 0x40 || b.MatrixIndex != 7 {
		t.Errorf("bone = %+v", b)
	}
	if got := a.Nodes[0x40].DLIndices; len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("skinning indices = %v", got)
	}

	var order []int
	a.Walk(func(n *Node, depth int) bool {
		order = append(order, n.Offset)
		return true
	})
	want := []int{0, 0x18, 0x30, 0x40}
	if len(order) != len(want) {
		t.Fatalf("walk = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("walk = %v, want %v", order, want)
		}
	}
}

func TestSharedChildVisitedOnce(t *testing.T) {
	// Two bones point at the same load-dl.
	b1 := node(CmdBone, 0x10, 0x10)
	b1[8] = 0x20
	b2 := node(CmdBone, 0x10, 0)
	b2[8] = 0x10
	load := node(CmdLoadDL, 0x10, 0)
	buf := append(append(b1, b2...), load...)

	a, err := Parse(buf, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(a.Nodes))
	}
	visits := 0
	a.Walk(func(n *Node, _ int) bool {
		if n.Offset == 0x20 {
			visits++
		}
		return true
	})
	if visits != 1 {
		t.Fatalf("shared node visited %d times", visits)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse(node(Command(7), 0x10, 0), 0); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("unknown command: err = %v", err)
	}
	if _, err := Parse(node(CmdSort, 0x10, 0), 0); !errors.Is(err, ErrTruncated) {
		t.Errorf("short sort: err = %v", err)
	}
	if _, err := Parse(node(Cmd0C, 8, 0x40), 0); !errors.Is(err, ErrTruncated) {
		t.Errorf("dangling sibling: err = %v", err)
	}
}
