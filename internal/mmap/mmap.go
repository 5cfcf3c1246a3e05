// Package mmap provides read-only memory-mapped views of files.
//
//	m, err := mmap.Open("App.dSYM/Contents/Resources/DWARF/App")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// The slice returned by Bytes aliases the mapping and must not be used after
// Close. On platforms without mmap(2) the file is read into memory instead.
package mmap

import (
	"errors"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the file size cannot be mapped.
	ErrInvalidSize = errors.New("mmap: invalid file size")
)

// Mapping is a read-only view of a file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	// unmap releases data; nil when there is nothing to release.
	unmap func([]byte) error
}

// Open maps the file at path into memory.
// Empty files produce an empty mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size < 0 || int64(int(size)) != size {
		return nil, ErrInvalidSize
	}

	data, unmap, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data, unmap: unmap}, nil
}

// Close releases the mapping. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	data := m.data
	m.data = nil
	if m.unmap != nil && data != nil {
		return m.unmap(data)
	}
	return nil
}

// Bytes returns the mapped bytes, or nil after Close.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return len(m.data)
}
