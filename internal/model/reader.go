package model

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader walks a big-endian byte slice. The first failure sticks: later
// reads return zero values and err keeps the first cause.
type reader struct {
	data []byte
	off  int
	err  error
}

func newReader(b []byte) *reader { return &reader{data: b} }

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if n < 0 || r.off+n > len(r.data) {
		r.err = fmt.Errorf("need %d bytes at 0x%X, have %d: %w", n, r.off, len(r.data)-r.off, ErrTruncated)
		r.off = len(r.data)
		return false
	}
	return true
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) u8() uint8 {
	if !r.need(1) {
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) i8() int8 { return int8(r.u8()) }

func (r *reader) u16() uint16 {
	if !r.need(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.off:])
	r.off += 2
	return v
}

func (r *reader) i16() int16 { return int16(r.u16()) }

func (r *reader) u32() uint32 {
	if !r.need(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) f32() float32 { return math.Float32frombits(r.u32()) }

func (r *reader) vec3i16() [3]int16 {
	return [3]int16{r.i16(), r.i16(), r.i16()}
}

// copyInto fills dst from the cursor. The bytes are copied so decoded values
// never alias the caller's buffer.
func (r *reader) copyInto(dst []byte) {
	if !r.need(len(dst)) {
		return
	}
	copy(dst, r.data[r.off:])
	r.off += len(dst)
}

// readRecords decodes up to count records of width bytes. The list takes as
// many whole records as remain in the buffer; coming up short of count is a
// count mismatch rather than a silent partial list.
func readRecords[T any](r *reader, what string, count, width int, decode func(*reader) T) []T {
	if r.err != nil {
		return nil
	}
	avail := (len(r.data) - r.off) / width
	n := min(count, avail)
	out := make([]T, 0, n)
	for range n {
		out = append(out, decode(r))
	}
	if len(out) != count {
		r.fail(fmt.Errorf("%s: decoded %d of %d: %w", what, len(out), count, ErrCountMismatch))
	}
	return out
}

// Writing helpers.

func align8(n int) int { return (n + 7) &^ 7 }

// pad zero-fills b up to the next multiple of eight bytes.
func pad(b []byte) []byte {
	for len(b)%8 != 0 {
		b = append(b, 0)
	}
	return b
}

func appendU16(b []byte, v uint16) []byte { return binary.BigEndian.AppendUint16(b, v) }
func appendI16(b []byte, v int16) []byte { return binary.BigEndian.AppendUint16(b, uint16(v)) }
func appendU32(b []byte, v uint32) []byte { return binary.BigEndian.AppendUint32(b, v) }

func appendF32(b []byte, v float32) []byte {
	return binary.BigEndian.AppendUint32(b, math.Float32bits(v))
}

func appendVec3i16(b []byte, v [3]int16) []byte {
	for _, c := range v {
		b = appendI16(b, c)
	}
	return b
}
