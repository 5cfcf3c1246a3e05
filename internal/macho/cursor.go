package macho

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a read would run past the end of the buffer.
	ErrTruncated = errors.New("truncated")

	// ErrMalformedRecord is returned for a record whose length field is
	// smaller than its own header.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrMalformedIndex is returned for a universal index entry whose byte
	// range is unusable.
	ErrMalformedIndex = errors.New("malformed universal index")
)

// Endianness is the byte order of every multi-byte field in a container.
type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "big"
	}
	return "little"
}

func (e Endianness) byteOrder() binary.ByteOrder {
	if e == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Cursor is a bounds-checked reader over an immutable byte buffer.
// A failed read leaves the position unchanged.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor returns a cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Pos returns the current offset.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d remaining", ErrTruncated, n, c.pos, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return b, nil
}

// Uint32 reads a 32-bit integer.
func (c *Cursor) Uint32(order Endianness) (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return order.byteOrder().Uint32(b), nil
}

// Uint64 reads a 64-bit integer.
func (c *Cursor) Uint64(order Endianness) (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return order.byteOrder().Uint64(b), nil
}

// Uint reads an integer of the given width in bits, 32 or 64.
func (c *Cursor) Uint(width int, order Endianness) (uint64, error) {
	switch width {
	case 32:
		v, err := c.Uint32(order)
		return uint64(v), err
	case 64:
		return c.Uint64(order)
	default:
		return 0, fmt.Errorf("unsupported integer width %d", width)
	}
}

// Bytes returns a view of the next n bytes. The view aliases the buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	return c.take(n)
}

// Skip advances the position by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

// Seek moves to an absolute offset. Seeking to Len() is allowed.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return fmt.Errorf("%w: seek to offset %d beyond %d bytes", ErrTruncated, off, len(c.data))
	}
	c.pos = off
	return nil
}
