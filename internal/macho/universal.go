package macho

import (
	"fmt"
)

const (
	fatArchSize32 = 20
	fatArchSize64 = 32

	// MaxUniversalEntries bounds the index of a universal container. Real
	// containers carry a handful of slices; anything larger is more likely a
	// Java class file, which shares the 0xcafebabe magic.
	MaxUniversalEntries = 128
)

// Slice is the byte range of one image embedded in a universal container.
type Slice struct {
	// Index is the position of the entry in the universal index.
	Index      int
	CPU        CPUType
	CPUSubtype uint32
	Offset     uint64
	Size       uint64
	// Align is the alignment as a power of two.
	Align uint32
}

// Bytes returns the slice's bytes within data. The range must have been
// validated by ReadSlices.
func (s Slice) Bytes(data []byte) []byte {
	return data[s.Offset : s.Offset+s.Size]
}

// ReadSlices reads the index of a universal container. Entries whose range
// does not fit inside data are dropped and reported; the remaining entries
// are returned in index order.
func ReadSlices(data []byte, width AddressWidth) ([]Slice, []Diagnostic) {
	var diags []Diagnostic
	report := func(index int, err error) {
		diags = append(diags, Diagnostic{Image: index, Err: err})
	}

	c := NewCursor(data)
	if err := c.Skip(MagicSize); err != nil {
		report(-1, fmt.Errorf("read universal header: %w", err))
		return nil, diags
	}
	count, err := c.Uint32(BigEndian)
	if err != nil {
		report(-1, fmt.Errorf("read universal header: %w", err))
		return nil, diags
	}
	if count > MaxUniversalEntries {
		report(-1, fmt.Errorf("%w: %d entries exceeds limit of %d", ErrMalformedIndex, count, MaxUniversalEntries))
		return nil, diags
	}

	entrySize := fatArchSize32
	if width == Width64 {
		entrySize = fatArchSize64
	}
	n := int(count)
	if fit := c.Remaining() / entrySize; n > fit {
		report(-1, fmt.Errorf("%w: index declares %d entries, room for %d", ErrTruncated, n, fit))
		n = fit
	}

	size := uint64(len(data))
	slices := make([]Slice, 0, n)
	for i := 0; i < n; i++ {
		s, err := readSlice(c, width)
		if err != nil {
			report(i, fmt.Errorf("read universal entry %d: %w", i, err))
			break
		}
		s.Index = i
		switch {
		case s.Size == 0:
			report(i, fmt.Errorf("%w: entry %d is empty", ErrMalformedIndex, i))
		case s.Offset > size || s.Size > size-s.Offset:
			report(i, fmt.Errorf("%w: entry %d range [%d, %d+%d) exceeds %d bytes: %w",
				ErrMalformedIndex, i, s.Offset, s.Offset, s.Size, size, ErrTruncated))
		default:
			slices = append(slices, s)
		}
	}
	return slices, diags
}

func readSlice(c *Cursor, width AddressWidth) (Slice, error) {
	var s Slice
	cpu, err := c.Uint32(BigEndian)
	if err != nil {
		return s, err
	}
	s.CPU = CPUType(cpu)
	if s.CPUSubtype, err = c.Uint32(BigEndian); err != nil {
		return s, err
	}

	wordWidth := 32
	if width == Width64 {
		wordWidth = 64
	}
	if s.Offset, err = c.Uint(wordWidth, BigEndian); err != nil {
		return s, err
	}
	if s.Size, err = c.Uint(wordWidth, BigEndian); err != nil {
		return s, err
	}
	if s.Align, err = c.Uint32(BigEndian); err != nil {
		return s, err
	}
	if width == Width64 {
		// reserved
		if err := c.Skip(4); err != nil {
			return s, err
		}
	}
	return s, nil
}
