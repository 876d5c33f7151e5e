package legacy

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docchat-labs/docchat-cli/internal/legacy/legacytest"
)

func TestReadMatrix_RoundTrip(t *testing.T) {
	matrix := [][]float32{
		{1.5, -2.25, 0},
		{0.125, 3, -7.5},
	}

	path := filepath.Join(t.TempDir(), "vectors.npy")
	require.NoError(t, legacytest.WriteMatrix(path, matrix))

	got, err := ReadMatrix(path)
	require.NoError(t, err)
	assert.Equal(t, matrix, got)
}

func TestReadMatrix_EmptyMatrix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.npy")
	require.NoError(t, legacytest.WriteMatrix(path, nil))

	got, err := ReadMatrix(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParseMatrix_V2Header(t *testing.T) {
	// Same layout as v1 but with a 4-byte header length.
	header := "{'descr': '<f4', 'fortran_order': False, 'shape': (1, 2), }\n"
	buf := append([]byte{}, npyMagic...)
	buf = append(buf, 2, 0)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(header)))
	buf = append(buf, header...)
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(1))
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(2))

	got, err := parseMatrix(buf)
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 2}}, got)
}

func TestParseMatrix_Rejects(t *testing.T) {
	valid := func() []byte {
		header := "{'descr': '<f4', 'fortran_order': False, 'shape': (1, 1), }\n"
		buf := append([]byte{}, npyMagic...)
		buf = append(buf, 1, 0)
		buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
		buf = append(buf, header...)
		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(1))
	}

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		errHas string
	}{
		{
			name:   "bad magic",
			mutate: func(b []byte) []byte { b[0] = 'X'; return b },
			errHas: "bad magic",
		},
		{
			name:   "unsupported version",
			mutate: func(b []byte) []byte { b[6] = 3; return b },
			errHas: "unsupported format version",
		},
		{
			name:   "truncated payload",
			mutate: func(b []byte) []byte { return b[:len(b)-2] },
			errHas: "payload",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseMatrix(tc.mutate(valid()))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errHas)
		})
	}
}

func TestParseMatrix_WrongDtype(t *testing.T) {
	header := "{'descr': '<f8', 'fortran_order': False, 'shape': (1, 1), }\n"
	buf := append([]byte{}, npyMagic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	buf = append(buf, make([]byte, 8)...)

	_, err := parseMatrix(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<f4")
}

func TestParseMatrix_OneDimensional(t *testing.T) {
	header := "{'descr': '<f4', 'fortran_order': False, 'shape': (3,), }\n"
	buf := append([]byte{}, npyMagic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	buf = append(buf, make([]byte, 12)...)

	_, err := parseMatrix(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2")
}
