// Package octets implements little-endian-default, bounds-checked readers
// and writers over byte slices, the wire-level primitive used by the eir
// package.
package octets

import (
	"encoding/binary"
	"errors"

	"github.com/shimmeringbits/gattle/uuid"
)

// ErrIndexOutOfRange is returned whenever a get/put would read or write
// past the bounds of the underlying slice.
var ErrIndexOutOfRange = errors.New("octets: index out of range")

// View is a read-only, offset-addressed window over a borrowed byte slice.
// It never copies or allocates.
type View []byte

// Len returns the number of bytes in the view.
func (v View) Len() int { return len(v) }

// Bytes returns the raw bytes backing the view.
func (v View) Bytes() []byte { return v }

// GetU8 returns the byte at offset.
func (v View) GetU8(offset int) (uint8, error) {
	if offset < 0 || offset >= len(v) {
		return 0, ErrIndexOutOfRange
	}
	return v[offset], nil
}

// GetI8 returns the byte at offset, interpreted as signed.
func (v View) GetI8(offset int) (int8, error) {
	b, err := v.GetU8(offset)
	return int8(b), err
}

// GetU16LE returns the little-endian uint16 at offset.
func (v View) GetU16LE(offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(v) {
		return 0, ErrIndexOutOfRange
	}
	return binary.LittleEndian.Uint16(v[offset:]), nil
}

// GetU32LE returns the little-endian (24 or 32 bit, callers truncate) uint32 at offset.
func (v View) GetU32LE(offset, width int) (uint32, error) {
	if offset < 0 || width < 1 || width > 4 || offset+width > len(v) {
		return 0, ErrIndexOutOfRange
	}
	var u uint32
	for i := width - 1; i >= 0; i-- {
		u = (u << 8) | uint32(v[offset+i])
	}
	return u, nil
}

// GetBytes returns a copy of n bytes starting at offset.
func (v View) GetBytes(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(v) {
		return nil, ErrIndexOutOfRange
	}
	b := make([]byte, n)
	copy(b, v[offset:offset+n])
	return b, nil
}

// GetUUID reads a UUID of the given wire width (2, 4 or 16 octets) at offset.
func (v View) GetUUID(offset, typeSize int) (uuid.UUID, error) {
	b, err := v.GetBytes(offset, typeSize)
	if err != nil {
		return uuid.UUID{}, err
	}
	return uuid.FromLittleEndianBytes(b)
}

// Slice returns a sub-view [offset:offset+n), sharing the backing array.
func (v View) Slice(offset, n int) (View, error) {
	if offset < 0 || n < 0 || offset+n > len(v) {
		return nil, ErrIndexOutOfRange
	}
	return v[offset : offset+n], nil
}

// Buffer is a growable, owned byte container with a logical write pointer.
// Capacity is fixed at construction; Resize only changes the logical length.
type Buffer struct {
	b []byte
}

// NewBuffer allocates a Buffer with the given capacity, zero-filled and
// initially of length capacity.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{b: make([]byte, capacity, capacity)}
}

// NewBufferFromBytes wraps a copy of b as an owned Buffer.
func NewBufferFromBytes(b []byte) *Buffer {
	c := make([]byte, len(b))
	copy(c, b)
	return &Buffer{b: c}
}

// Len returns the logical length of the buffer.
func (buf *Buffer) Len() int { return len(buf.b) }

// Cap returns the capacity of the buffer.
func (buf *Buffer) Cap() int { return cap(buf.b) }

// Bytes returns the buffer's current content.
func (buf *Buffer) Bytes() []byte { return buf.b }

// View returns a read-only View over the buffer's current content.
func (buf *Buffer) View() View { return View(buf.b) }

// Resize changes the logical length to n, n <= Cap(). Newly exposed bytes
// when growing are left as whatever was previously written there.
func (buf *Buffer) Resize(n int) error {
	if n < 0 || n > cap(buf.b) {
		return ErrIndexOutOfRange
	}
	buf.b = buf.b[:n]
	return nil
}

// PutU8 writes a byte at offset.
func (buf *Buffer) PutU8(offset int, v uint8) error {
	if offset < 0 || offset >= len(buf.b) {
		return ErrIndexOutOfRange
	}
	buf.b[offset] = v
	return nil
}

// PutU16LE writes a little-endian uint16 at offset.
func (buf *Buffer) PutU16LE(offset int, v uint16) error {
	if offset < 0 || offset+2 > len(buf.b) {
		return ErrIndexOutOfRange
	}
	binary.LittleEndian.PutUint16(buf.b[offset:], v)
	return nil
}

// PutBytes copies v into the buffer starting at offset.
func (buf *Buffer) PutBytes(offset int, v []byte) error {
	if offset < 0 || offset+len(v) > len(buf.b) {
		return ErrIndexOutOfRange
	}
	copy(buf.b[offset:], v)
	return nil
}

// Append grows the buffer (up to Cap()) by appending v's bytes at the
// current end, returning the offset it was written at.
func (buf *Buffer) Append(v []byte) (int, error) {
	offset := len(buf.b)
	if offset+len(v) > cap(buf.b) {
		return 0, ErrIndexOutOfRange
	}
	buf.b = buf.b[:offset+len(v)]
	copy(buf.b[offset:], v)
	return offset, nil
}
