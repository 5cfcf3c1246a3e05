package macho

import (
	"fmt"
)

const (
	headerSize32 = 28
	headerSize64 = 32
)

// CPUType identifies the architecture of an image.
type CPUType uint32

const cpuArch64 = 0x01000000

// CPU types. CPUARM64_32 is arm64 with 32-bit pointers.
const (
	CPUX86      CPUType = 7
	CPUX86_64   CPUType = CPUX86 | cpuArch64
	CPUARM      CPUType = 12
	CPUARM64    CPUType = CPUARM | cpuArch64
	CPUARM64_32 CPUType = CPUARM | 0x02000000
	CPUPPC      CPUType = 18
	CPUPPC64    CPUType = CPUPPC | cpuArch64
)

var cpuNames = map[CPUType]string{
	CPUX86:      "i386",
	CPUX86_64:   "x86_64",
	CPUARM:      "arm",
	CPUARM64:    "arm64",
	CPUARM64_32: "arm64_32",
	CPUPPC:      "ppc",
	CPUPPC64:    "ppc64",
}

func (c CPUType) String() string {
	if name, ok := cpuNames[c]; ok {
		return name
	}
	return fmt.Sprintf("cpu(0x%x)", uint32(c))
}

// FileType is the Mach-O file type (MH_EXECUTE, MH_DSYM, ...).
type FileType uint32

const (
	TypeObject     FileType = 0x1
	TypeExecute    FileType = 0x2
	TypeCore       FileType = 0x4
	TypeDylib      FileType = 0x6
	TypeDylinker   FileType = 0x7
	TypeBundle     FileType = 0x8
	TypeDSYM       FileType = 0xa
	TypeKextBundle FileType = 0xb
)

var fileTypeNames = map[FileType]string{
	TypeObject:     "object",
	TypeExecute:    "execute",
	TypeCore:       "core",
	TypeDylib:      "dylib",
	TypeDylinker:   "dylinker",
	TypeBundle:     "bundle",
	TypeDSYM:       "dsym",
	TypeKextBundle: "kext",
}

func (t FileType) String() string {
	if name, ok := fileTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("filetype(0x%x)", uint32(t))
}

// Header is a parsed container header. For universal and unrecognized
// buffers only the Magic fields are set.
type Header struct {
	Magic

	CPU         CPUType
	CPUSubtype  uint32
	FileType    FileType
	NumRecords  uint32
	RecordsSize uint32
	Flags       uint32
}

// RecordsOffset returns the offset at which load commands begin.
func (h *Header) RecordsOffset() int {
	if h.Width == Width64 {
		return headerSize64
	}
	return headerSize32
}

// ReadHeader parses the header at the start of data.
// An unrecognized magic number is not an error; the returned header has
// Kind == KindUnrecognized.
func ReadHeader(data []byte) (*Header, error) {
	hdr := &Header{Magic: Identify(data)}
	if hdr.Kind != KindSingle {
		return hdr, nil
	}

	c := NewCursor(data)
	order := hdr.Endianness
	if err := c.Skip(MagicSize); err != nil {
		return nil, err
	}
	fields := []*uint32{
		(*uint32)(&hdr.CPU),
		&hdr.CPUSubtype,
		(*uint32)(&hdr.FileType),
		&hdr.NumRecords,
		&hdr.RecordsSize,
		&hdr.Flags,
	}
	for _, f := range fields {
		v, err := c.Uint32(order)
		if err != nil {
			return nil, fmt.Errorf("read mach-o header: %w", err)
		}
		*f = v
	}
	if hdr.Width == Width64 {
		// reserved
		if err := c.Skip(4); err != nil {
			return nil, fmt.Errorf("read mach-o header: %w", err)
		}
	}
	return hdr, nil
}
