package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriteInt8WritesRawBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.iq")
	f, err := NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.WriteInt8([]int8{1, -1, 127, -128}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0xFF, 0x7F, 0x80}, data)
}

func TestFileWriteInt16WritesLittleEndian(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out16.iq")
	f, err := NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.WriteInt16([]int16{1, -1}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0xFF, 0xFF}, data)
}
