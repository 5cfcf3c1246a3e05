package macho_test

import (
	"encoding/binary"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitsuhiko/machfind/internal/macho"
	"github.com/mitsuhiko/machfind/internal/macho/machotest"
)

func TestReadSlices(t *testing.T) {
	for _, tc := range []struct {
		name  string
		is64  bool
		width macho.AddressWidth
	}{
		{"fat_arch", false, macho.Width32},
		{"fat_arch_64", true, macho.Width64},
	} {
		t.Run(tc.name, func(t *testing.T) {
			first := machotest.WithUUID(idA)
			data := machotest.Universal(tc.is64,
				machotest.Arch{CPU: machotest.CPUX86_64, Data: first},
				machotest.Arch{CPU: machotest.CPUARM64, Data: machotest.WithUUID(idB)},
			)

			slices, diags := macho.ReadSlices(data, tc.width)
			require.Empty(t, diags)
			require.Len(t, slices, 2)

			assert.Equal(t, macho.CPUX86_64, slices[0].CPU)
			assert.Equal(t, uint64(4096), slices[0].Offset)
			assert.Equal(t, uint64(len(first)), slices[0].Size)
			assert.Equal(t, uint32(12), slices[0].Align)
			assert.Equal(t, first, slices[0].Bytes(data))

			assert.Equal(t, 1, slices[1].Index)
			assert.Equal(t, macho.CPUARM64, slices[1].CPU)
			assert.Equal(t, uint64(8192), slices[1].Offset)
		})
	}
}

func TestReadSlices_OutOfRangeEntryIsDropped(t *testing.T) {
	data := machotest.Universal(false,
		machotest.Arch{Data: machotest.WithUUID(idA), Size: 1 << 20},
		machotest.Arch{Data: machotest.WithUUID(idB)},
	)

	slices, diags := macho.ReadSlices(data, macho.Width32)
	require.Len(t, slices, 1)
	assert.Equal(t, 1, slices[0].Index)

	require.Len(t, diags, 1)
	assert.Equal(t, 0, diags[0].Image)
	assert.ErrorIs(t, diags[0], macho.ErrMalformedIndex)
	assert.ErrorIs(t, diags[0], macho.ErrTruncated)

	// The sibling slice is still scanned.
	assert.Equal(t, []uuid.UUID{idB}, macho.Scan(data))
}

func TestReadSlices_OffsetOverflow(t *testing.T) {
	data := machotest.Universal(true,
		machotest.Arch{Data: machotest.WithUUID(idA), Offset: ^uint64(0) - 8, Size: 64},
	)

	slices, diags := macho.ReadSlices(data, macho.Width64)
	assert.Empty(t, slices)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], macho.ErrMalformedIndex)
}

func TestReadSlices_CountClampedToBuffer(t *testing.T) {
	data := machotest.Universal(false,
		machotest.Arch{Data: machotest.WithUUID(idA)},
		machotest.Arch{Data: machotest.WithUUID(idB)},
	)
	// Keep the header, the first entry and half of the second.
	data = data[:8+20+10]

	slices, diags := macho.ReadSlices(data, macho.Width32)
	assert.Empty(t, slices)
	require.Len(t, diags, 2)

	assert.Equal(t, -1, diags[0].Image)
	assert.ErrorIs(t, diags[0], macho.ErrTruncated)

	assert.Equal(t, 0, diags[1].Image)
	assert.ErrorIs(t, diags[1], macho.ErrMalformedIndex)
}

func TestReadSlices_TooManyEntries(t *testing.T) {
	data := machotest.Universal(false, machotest.Arch{Data: machotest.WithUUID(idA)})
	binary.BigEndian.PutUint32(data[4:], macho.MaxUniversalEntries+1)

	slices, diags := macho.ReadSlices(data, macho.Width32)
	assert.Empty(t, slices)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], macho.ErrMalformedIndex)
}

func TestReadSlices_HeaderOnly(t *testing.T) {
	slices, diags := macho.ReadSlices([]byte{0xca, 0xfe, 0xba, 0xbe, 0, 0}, macho.Width32)
	assert.Empty(t, slices)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], macho.ErrTruncated)
}

func TestScan_SliceWithoutMachOMagic(t *testing.T) {
	data := machotest.Universal(false,
		machotest.Arch{Data: []byte("not an image at all")},
		machotest.Arch{Data: machotest.WithUUID(idA)},
	)

	report := macho.Inspect(data)
	assert.Equal(t, []uuid.UUID{idA}, report.Identifiers())
	require.Len(t, report.Diagnostics, 1)
	assert.Equal(t, 0, report.Diagnostics[0].Image)
}

func TestScan_NestedUniversalIsNotDescended(t *testing.T) {
	inner := machotest.Universal(false, machotest.Arch{Data: machotest.WithUUID(idC)})
	data := machotest.Universal(false,
		machotest.Arch{Data: inner},
		machotest.Arch{Data: machotest.WithUUID(idA)},
	)

	report := macho.Inspect(data)
	assert.Equal(t, []uuid.UUID{idA}, report.Identifiers())
	assert.ErrorIs(t, report.Err(), macho.ErrMalformedIndex)
}
