package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image")
	content := []byte{0xcf, 0xfa, 0xed, 0xfe, 0x07, 0x00, 0x00, 0x01}
	require.NoError(t, os.WriteFile(path, content, 0o644))

	m, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, content, m.Bytes())
	assert.Equal(t, len(content), m.Size())

	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())

	// Close is idempotent.
	require.NoError(t, m.Close())
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	m, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, m.Bytes())
	assert.Equal(t, 0, m.Size())
	require.NoError(t, m.Close())
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, os.IsNotExist(err))
}

