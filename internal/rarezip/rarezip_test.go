package rarezip

import (
	"bytes"
	"errors"
	"testing"

	"github.com/klauspost/compress/flate"
)

func TestRoundTrip(t *testing.T) {
	in := bytes.Repeat([]byte("banjo kazooie "), 100)
	for _, level := range []int{0, flate.BestSpeed, flate.HuffmanOnly} {
		z, err := Compress(in, level)
		if err != nil {
			t.Fatal(err)
		}
		if !IsCompressed(z) {
			t.Fatalf("level %d: missing tag % X", level, z[:2])
		}
		if n, _ := Size(z); n != len(in) {
			t.Fatalf("level %d: size %d", level, n)
		}
		out, err := Decompress(z)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out, in) {
			t.Fatalf("level %d: round trip differs", level)
		}
	}
}

func TestDecompressErrors(t *testing.T) {
	if _, err := Decompress([]byte{0, 0, 0, 0x0B, 0, 0}); !errors.Is(err, ErrNotCompressed) {
		t.Fatalf("plain model: err = %v", err)
	}

	z, err := Compress([]byte("0123456789"), 0)
	if err != nil {
		t.Fatal(err)
	}
	// Claim more than the stream holds.
	z[5]++
	if _, err := Decompress(z); err == nil {
		t.Fatal("short stream accepted")
	}
	// Claim less than the stream holds.
	z[5] -= 2
	if _, err := Decompress(z); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("long stream: err = %v", err)
	}
}
