// Package rarezip reads and writes the compressed-asset wrapper: a two-byte
// tag, the big-endian decompressed size, then a raw DEFLATE stream.
package rarezip

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// HeaderSize is the length of the tag plus the size field.
const HeaderSize = 6

// Tag opens every compressed asset.
var Tag = [2]byte{0x11, 0x72}

var (
	ErrNotCompressed = errors.New("rarezip: missing 11 72 tag")
	ErrSizeMismatch  = errors.New("rarezip: decompressed size mismatch")
)

// IsCompressed reports whether b starts with the wrapper tag.
func IsCompressed(b []byte) bool {
	return len(b) >= HeaderSize && b[0] == Tag[0] && b[1] == Tag[1]
}

// Size returns the decompressed length declared in the header.
func Size(b []byte) (int, error) {
	if !IsCompressed(b) {
		return 0, ErrNotCompressed
	}
	return int(binary.BigEndian.Uint32(b[2:])), nil
}

// Decompress unwraps b. The inflated stream must be exactly the declared
// size.
func Decompress(b []byte) ([]byte, error) {
	size, err := Size(b)
	if err != nil {
		return nil, err
	}
	r := flate.NewReader(bytes.NewReader(b[HeaderSize:]))
	defer r.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("rarezip: inflate %d bytes: %w", size, err)
	}
	// Trailing data past the declared size is an error too.
	var one [1]byte
	if n, _ := r.Read(one[:]); n != 0 {
		return nil, fmt.Errorf("rarezip: stream longer than %d bytes: %w", size, ErrSizeMismatch)
	}
	return out, nil
}

// Compress wraps b at the given flate level (flate.BestCompression when
// level is zero).
func Compress(b []byte, level int) ([]byte, error) {
	if level == 0 {
		level = flate.BestCompression
	}
	var buf bytes.Buffer
	buf.Write(Tag[:])
	buf.Write(binary.BigEndian.AppendUint32(nil, uint32(len(b))))

	w, err := flate.NewWriter(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("rarezip: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return nil, fmt.Errorf("rarezip: deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("rarezip: deflate: %w", err)
	}
	return buf.Bytes(), nil
}
