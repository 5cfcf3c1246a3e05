package macho

import "encoding/binary"

// MagicSize is the size in bytes of the magic number at offset 0.
const MagicSize = 4

// Kind classifies a buffer by its magic number.
type Kind uint8

const (
	KindUnrecognized Kind = iota
	KindSingle
	KindUniversal
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single-architecture"
	case KindUniversal:
		return "universal"
	default:
		return "unrecognized"
	}
}

// AddressWidth is the word size implied by a magic number.
type AddressWidth uint8

const (
	Width32 AddressWidth = 32
	Width64 AddressWidth = 64
)

// Magic describes what a magic number says about the bytes that follow it.
type Magic struct {
	Kind       Kind
	Endianness Endianness
	Width      AddressWidth
}

// Magic numbers as they read when the first four bytes are taken big-endian.
const (
	magicBE32  = 0xfeedface
	magicLE32  = 0xcefaedfe
	magicBE64  = 0xfeedfacf
	magicLE64  = 0xcffaedfe
	magicFat32 = 0xcafebabe
	magicFat64 = 0xcafebabf
)

var magicTable = map[uint32]Magic{
	magicBE32:  {Kind: KindSingle, Endianness: BigEndian, Width: Width32},
	magicLE32:  {Kind: KindSingle, Endianness: LittleEndian, Width: Width32},
	magicBE64:  {Kind: KindSingle, Endianness: BigEndian, Width: Width64},
	magicLE64:  {Kind: KindSingle, Endianness: LittleEndian, Width: Width64},
	magicFat32: {Kind: KindUniversal, Endianness: BigEndian, Width: Width32},
	magicFat64: {Kind: KindUniversal, Endianness: BigEndian, Width: Width64},
}

// Identify classifies data by its leading magic number.
// Buffers shorter than MagicSize are unrecognized.
func Identify(data []byte) Magic {
	if len(data) < MagicSize {
		return Magic{Kind: KindUnrecognized}
	}
	m, ok := magicTable[binary.BigEndian.Uint32(data)]
	if !ok {
		return Magic{Kind: KindUnrecognized}
	}
	return m
}
