package macho

import (
	"fmt"
)

// RecordType is a load command tag (LC_*).
type RecordType uint32

// lcReqDyld is or'ed into commands the dynamic linker must understand.
const lcReqDyld = 0x80000000

const (
	RecordSegment           RecordType = 0x1
	RecordSymtab            RecordType = 0x2
	RecordThread            RecordType = 0x4
	RecordUnixThread        RecordType = 0x5
	RecordDysymtab          RecordType = 0xb
	RecordLoadDylib         RecordType = 0xc
	RecordIDDylib           RecordType = 0xd
	RecordLoadDylinker      RecordType = 0xe
	RecordSegment64         RecordType = 0x19
	RecordUUID              RecordType = 0x1b
	RecordRpath             RecordType = 0x1c | lcReqDyld
	RecordCodeSignature     RecordType = 0x1d
	RecordEncryptionInfo    RecordType = 0x21
	RecordDyldInfo          RecordType = 0x22
	RecordDyldInfoOnly      RecordType = 0x22 | lcReqDyld
	RecordVersionMinMacOSX  RecordType = 0x24
	RecordFunctionStarts    RecordType = 0x26
	RecordMain              RecordType = 0x28 | lcReqDyld
	RecordDataInCode        RecordType = 0x29
	RecordSourceVersion     RecordType = 0x2a
	RecordBuildVersion      RecordType = 0x32
	RecordDyldExportsTrie   RecordType = 0x33 | lcReqDyld
	RecordDyldChainedFixups RecordType = 0x34 | lcReqDyld
)

var recordNames = map[RecordType]string{
	RecordSegment:           "LC_SEGMENT",
	RecordSymtab:            "LC_SYMTAB",
	RecordThread:            "LC_THREAD",
	RecordUnixThread:        "LC_UNIXTHREAD",
	RecordDysymtab:          "LC_DYSYMTAB",
	RecordLoadDylib:         "LC_LOAD_DYLIB",
	RecordIDDylib:           "LC_ID_DYLIB",
	RecordLoadDylinker:      "LC_LOAD_DYLINKER",
	RecordSegment64:         "LC_SEGMENT_64",
	RecordUUID:              "LC_UUID",
	RecordRpath:             "LC_RPATH",
	RecordCodeSignature:     "LC_CODE_SIGNATURE",
	RecordEncryptionInfo:    "LC_ENCRYPTION_INFO",
	RecordDyldInfo:          "LC_DYLD_INFO",
	RecordDyldInfoOnly:      "LC_DYLD_INFO_ONLY",
	RecordVersionMinMacOSX:  "LC_VERSION_MIN_MACOSX",
	RecordFunctionStarts:    "LC_FUNCTION_STARTS",
	RecordMain:              "LC_MAIN",
	RecordDataInCode:        "LC_DATA_IN_CODE",
	RecordSourceVersion:     "LC_SOURCE_VERSION",
	RecordBuildVersion:      "LC_BUILD_VERSION",
	RecordDyldExportsTrie:   "LC_DYLD_EXPORTS_TRIE",
	RecordDyldChainedFixups: "LC_DYLD_CHAINED_FIXUPS",
}

func (t RecordType) String() string {
	if name, ok := recordNames[t]; ok {
		return name
	}
	return fmt.Sprintf("LC(0x%x)", uint32(t))
}

// recordHeaderSize is the size of the type and length fields.
const recordHeaderSize = 8

// Record is one load command. Len includes the 8-byte header; Payload is a
// view into the scanned buffer.
type Record struct {
	Type    RecordType
	Len     uint32
	Offset  int
	Payload []byte
}

// RecordIterator walks the load commands of one image.
//
//	it := NewRecordIterator(data, hdr.RecordsOffset(), hdr.NumRecords, hdr.Endianness)
//	for it.Next() {
//		rec := it.Record()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
//
// Iteration stops when the declared count is exhausted or the buffer ends,
// whichever comes first. A record that does not fit stops iteration; records
// already returned stay valid.
type RecordIterator struct {
	c       *Cursor
	order   Endianness
	left    uint32
	current Record
	err     error
}

// NewRecordIterator returns an iterator over count records starting at offset.
func NewRecordIterator(data []byte, offset int, count uint32, order Endianness) *RecordIterator {
	it := &RecordIterator{c: NewCursor(data), order: order, left: count}
	if err := it.c.Seek(offset); err != nil {
		it.err = err
		it.left = 0
	}
	return it
}

// Next advances to the next record and reports whether one is available.
func (it *RecordIterator) Next() bool {
	if it.left == 0 || it.err != nil {
		return false
	}
	if it.c.Remaining() == 0 {
		// The buffer ended before the declared count; prefer the boundary.
		it.err = fmt.Errorf("%w: %d of the declared records missing at offset %d", ErrTruncated, it.left, it.c.Pos())
		it.left = 0
		return false
	}

	at := it.c.Pos()
	typ, err := it.c.Uint32(it.order)
	if err != nil {
		return it.fail(err)
	}
	size, err := it.c.Uint32(it.order)
	if err != nil {
		return it.fail(err)
	}
	if size < recordHeaderSize {
		return it.fail(fmt.Errorf("%w: %s at offset %d has length %d", ErrMalformedRecord, RecordType(typ), at, size))
	}
	payload, err := it.c.Bytes(int(size - recordHeaderSize))
	if err != nil {
		return it.fail(fmt.Errorf("%s at offset %d with length %d: %w", RecordType(typ), at, size, err))
	}

	it.left--
	it.current = Record{Type: RecordType(typ), Len: size, Offset: at, Payload: payload}
	return true
}

func (it *RecordIterator) fail(err error) bool {
	it.err = err
	it.left = 0
	return false
}

// Record returns the record most recently produced by Next.
func (it *RecordIterator) Record() Record {
	return it.current
}

// Err returns the reason iteration stopped early, if any.
func (it *RecordIterator) Err() error {
	return it.err
}
