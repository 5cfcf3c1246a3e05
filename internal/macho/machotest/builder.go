// Package machotest builds synthetic Mach-O images and universal containers
// for tests.
package machotest

import (
	"encoding/binary"

	"github.com/google/uuid"
)

const (
	lcSegment64 = 0x19
	lcUUID      = 0x1b

	cpuX86_64 = 0x01000007
	cpuARM64  = 0x0100000c

	mhExecute = 0x2
	mhDSYM    = 0xa
)

// CPU types accepted by Image.CPU and Arch.CPU.
const (
	CPUX86_64 uint32 = cpuX86_64
	CPUARM64  uint32 = cpuARM64
)

// Record is a load command to embed in an image.
type Record struct {
	Type    uint32
	Payload []byte
	// Len overrides the encoded length when non-zero.
	Len uint32
}

// UUID returns an LC_UUID record carrying id.
func UUID(id uuid.UUID) Record {
	payload := make([]byte, len(id))
	copy(payload, id[:])
	return Record{Type: lcUUID, Payload: payload}
}

// Segment64 returns an LC_SEGMENT_64 record with a zeroed body.
func Segment64() Record {
	return Record{Type: lcSegment64, Payload: make([]byte, 64)}
}

// Image describes a single-architecture image.
type Image struct {
	// Order defaults to little-endian.
	Order binary.AppendByteOrder
	Is32  bool
	// CPU defaults to x86_64.
	CPU uint32
	// DSYM marks the image as a debug-symbol companion file.
	DSYM    bool
	Records []Record
	// NumRecords overrides the declared record count when non-zero.
	NumRecords uint32
}

// Bytes encodes the image.
func (img Image) Bytes() []byte {
	order := img.Order
	if order == nil {
		order = binary.LittleEndian
	}
	cpu := img.CPU
	if cpu == 0 {
		cpu = cpuX86_64
	}
	fileType := uint32(mhExecute)
	if img.DSYM {
		fileType = mhDSYM
	}

	var body []byte
	for _, rec := range img.Records {
		size := rec.Len
		if size == 0 {
			size = uint32(8 + len(rec.Payload))
		}
		body = order.AppendUint32(body, rec.Type)
		body = order.AppendUint32(body, size)
		body = append(body, rec.Payload...)
	}

	count := img.NumRecords
	if count == 0 {
		count = uint32(len(img.Records))
	}

	magic := uint32(0xfeedfacf)
	if img.Is32 {
		magic = 0xfeedface
	}
	var out []byte
	out = order.AppendUint32(out, magic)
	out = order.AppendUint32(out, cpu)
	out = order.AppendUint32(out, 3) // subtype
	out = order.AppendUint32(out, fileType)
	out = order.AppendUint32(out, count)
	out = order.AppendUint32(out, uint32(len(body)))
	out = order.AppendUint32(out, 0) // flags
	if !img.Is32 {
		out = order.AppendUint32(out, 0) // reserved
	}
	return append(out, body...)
}

// WithUUID returns a little-endian 64-bit image carrying a segment and id.
func WithUUID(id uuid.UUID) []byte {
	return Image{Records: []Record{Segment64(), UUID(id)}}.Bytes()
}

// Arch is one slice of a universal container.
type Arch struct {
	CPU  uint32
	Data []byte
	// Offset and Size override the index entry when non-zero.
	Offset uint64
	Size   uint64
}

// sliceAlign is the alignment (as a power of two) of slices in Universal.
const sliceAlign = 12

// Universal encodes a universal container holding archs. Slices are placed
// back to back at 4 KiB aligned offsets.
func Universal(is64 bool, archs ...Arch) []byte {
	entrySize := 20
	magic := uint32(0xcafebabe)
	if is64 {
		entrySize = 32
		magic = 0xcafebabf
	}

	align := uint64(1) << sliceAlign
	next := alignUp(uint64(8+entrySize*len(archs)), align)
	offsets := make([]uint64, len(archs))
	for i, a := range archs {
		offsets[i] = next
		next = alignUp(next+uint64(len(a.Data)), align)
	}

	be := binary.BigEndian
	var out []byte
	out = be.AppendUint32(out, magic)
	out = be.AppendUint32(out, uint32(len(archs)))
	for i, a := range archs {
		cpu := a.CPU
		if cpu == 0 {
			cpu = cpuX86_64
		}
		offset, size := offsets[i], uint64(len(a.Data))
		if a.Offset != 0 {
			offset = a.Offset
		}
		if a.Size != 0 {
			size = a.Size
		}
		out = be.AppendUint32(out, cpu)
		out = be.AppendUint32(out, 3)
		if is64 {
			out = be.AppendUint64(out, offset)
			out = be.AppendUint64(out, size)
			out = be.AppendUint32(out, sliceAlign)
			out = be.AppendUint32(out, 0)
		} else {
			out = be.AppendUint32(out, uint32(offset))
			out = be.AppendUint32(out, uint32(size))
			out = be.AppendUint32(out, sliceAlign)
		}
	}
	for i, a := range archs {
		out = pad(out, offsets[i])
		out = append(out, a.Data...)
	}
	return out
}

func alignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}

func pad(b []byte, to uint64) []byte {
	for uint64(len(b)) < to {
		b = append(b, 0)
	}
	return b
}
