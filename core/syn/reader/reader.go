// Package reader provides the byte cursor the query lexer reads from.
//
// A BytesReader is a plain offset into an immutable buffer. It does no
// buffering of its own, so backing up to any earlier offset is free.
package reader

import (
	"errors"
	"math"
	"unicode/utf8"
)

var (
	// ErrUnexpectedEOF is returned when the source ends in the middle of a character.
	ErrUnexpectedEOF = errors.New("unexpected end of source")
	// ErrInvalidUTF8 is returned when the source contains an invalid UTF-8 sequence.
	ErrInvalidUTF8 = errors.New("source contains invalid utf-8")
)

// BytesReader is a cursor over a query source.
type BytesReader struct {
	data   []byte
	offset uint32
}

// New creates a reader over src. Offsets are 32 bit, so sources larger
// than math.MaxUint32 bytes are rejected with a panic.
func New(src []byte) *BytesReader {
	if uint64(len(src)) > math.MaxUint32 {
		panic("reader: source exceeds 4 GiB")
	}
	return &BytesReader{data: src}
}

// Len returns the length of the whole source.
func (r *BytesReader) Len() uint32 {
	return uint32(len(r.data))
}

// Offset returns the current position.
func (r *BytesReader) Offset() uint32 {
	return r.offset
}

// Backup moves the cursor back to offset.
func (r *BytesReader) Backup(offset uint32) {
	if offset > r.offset {
		panic("reader: backup past the current offset")
	}
	r.offset = offset
}

// Peek returns the next byte without consuming it.
func (r *BytesReader) Peek() (byte, bool) {
	if int(r.offset) >= len(r.data) {
		return 0, false
	}
	return r.data[r.offset], true
}

// PeekAt returns the byte n positions after the cursor.
func (r *BytesReader) PeekAt(n uint32) (byte, bool) {
	i := int(r.offset) + int(n)
	if i >= len(r.data) {
		return 0, false
	}
	return r.data[i], true
}

// Next consumes and returns the next byte.
func (r *BytesReader) Next() (byte, bool) {
	b, ok := r.Peek()
	if ok {
		r.offset++
	}
	return b, ok
}

// Eat consumes the next byte if it equals b.
func (r *BytesReader) Eat(b byte) bool {
	if n, ok := r.Peek(); ok && n == b {
		r.offset++
		return true
	}
	return false
}

// Span returns the bytes in [start, start+length).
func (r *BytesReader) Span(start, length uint32) []byte {
	return r.data[start : start+length]
}

// Remaining returns the unread part of the source.
func (r *BytesReader) Remaining() []byte {
	return r.data[r.offset:]
}

// NextChar decodes and consumes the next UTF-8 character.
func (r *BytesReader) NextChar() (rune, error) {
	b, ok := r.Next()
	if !ok {
		return 0, ErrUnexpectedEOF
	}
	if b < utf8.RuneSelf {
		return rune(b), nil
	}
	return r.Complete(b)
}

// Complete finishes decoding a multi-byte character whose leading byte
// has already been consumed.
func (r *BytesReader) Complete(lead byte) (rune, error) {
	start := r.offset - 1
	need := 0
	switch {
	case lead&0xE0 == 0xC0:
		need = 2
	case lead&0xF0 == 0xE0:
		need = 3
	case lead&0xF8 == 0xF0:
		need = 4
	default:
		return 0, ErrInvalidUTF8
	}
	if int(start)+need > len(r.data) {
		r.offset = uint32(len(r.data))
		return 0, ErrUnexpectedEOF
	}
	ch, size := utf8.DecodeRune(r.data[start : int(start)+need])
	if ch == utf8.RuneError || size != need {
		return 0, ErrInvalidUTF8
	}
	r.offset = start + uint32(need)
	return ch, nil
}

// PeekChar decodes the next character without consuming it.
func (r *BytesReader) PeekChar() (rune, int, bool) {
	if int(r.offset) >= len(r.data) {
		return 0, 0, false
	}
	ch, size := utf8.DecodeRune(r.data[r.offset:])
	if ch == utf8.RuneError && size <= 1 {
		return 0, 0, false
	}
	return ch, size, true
}

// Skip advances the cursor by n bytes.
func (r *BytesReader) Skip(n int) {
	r.offset += uint32(n)
}
