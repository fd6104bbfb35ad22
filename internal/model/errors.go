package model

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic means the first four bytes are not the model tag.
	ErrBadMagic = errors.New("bad magic")
	// ErrTruncated means the buffer ends before a declared offset, count, or
	// fixed-size sub-header.
	ErrTruncated = errors.New("truncated")
	// ErrCountMismatch means a list produced fewer elements than its count
	// field declares.
	ErrCountMismatch = errors.New("count mismatch")
	// ErrCountOverflow means a list is longer than its count field can
	// record.
	ErrCountOverflow = errors.New("count overflow")
)

// FormatError reports a failed decode. Section names the part of the file
// being read and Offset is its absolute byte position.
type FormatError struct {
	Section string
	Offset  int
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("model: %s at 0x%X: %v", e.Section, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }
