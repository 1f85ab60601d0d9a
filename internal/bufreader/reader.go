// Package bufreader implements a read-only cursor over a fixed byte slice,
// the leaf abstraction the wire codec is built on (RFC 1035 §4.1.4 name
// compression needs random-access seeks, not just sequential reads).
package bufreader

import (
	"fmt"

	"github.com/arnegrim/recurdns/internal/dnserr"
)

// Reader is a cursor with absolute positioning over a fixed byte slice. The
// zero value is not usable; construct one with New.
//
// Reader is cheap to clone: Clone returns a new cursor over the same
// backing slice, letting the name decoder follow a compression pointer
// without disturbing the caller's position.
type Reader struct {
	buf []byte
	pos int
}

// New returns a Reader positioned at the start of buf. buf is not copied;
// callers must not mutate it while the Reader is in use.
func New(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len reports the size of the backing slice.
func (r *Reader) Len() int {
	return len(r.buf)
}

// Offset reports the current cursor position.
func (r *Reader) Offset() int {
	return r.pos
}

// Seek moves the cursor to an absolute offset. Offset may be any
// non-negative value, including one past the end of the buffer; a seek
// past the end only fails on the next read, with ErrInputTruncated.
func (r *Reader) Seek(offset int) error {
	if offset < 0 {
		return fmt.Errorf("bufreader: negative seek offset %d: %w", offset, dnserr.ErrInputTruncated)
	}
	r.pos = offset
	return nil
}

// ReadByte reads and consumes a single byte at the cursor.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos < 0 || r.pos >= len(r.buf) {
		return 0, fmt.Errorf("bufreader: read past end at offset %d (len %d): %w", r.pos, len(r.buf), dnserr.ErrInputTruncated)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadN reads and consumes the next n bytes at the cursor. The returned
// slice aliases the backing buffer and must not be retained past its
// mutation (callers that need to keep it should copy).
func (r *Reader) ReadN(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bufreader: negative read length %d", n)
	}
	if r.pos < 0 || r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("bufreader: read of %d bytes past end at offset %d (len %d): %w", n, r.pos, len(r.buf), dnserr.ErrInputTruncated)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Clone returns a new Reader over the same backing slice, positioned at
// the same offset as r. Subsequent reads/seeks on the clone do not affect
// r, and vice versa.
func (r *Reader) Clone() *Reader {
	return &Reader{buf: r.buf, pos: r.pos}
}
