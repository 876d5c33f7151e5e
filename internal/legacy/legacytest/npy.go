// Package legacytest fabricates legacy cache fixtures for tests.
package legacytest

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"
)

// WriteMatrix serializes a 2-D float32 matrix as a numpy v1.0 .npy file,
// byte-for-byte the way numpy would save legacy embeddings.
func WriteMatrix(path string, matrix [][]float32) error {
	rows := len(matrix)
	cols := 0
	if rows > 0 {
		cols = len(matrix[0])
	}

	magic := "\x93NUMPY"
	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	// Pad so magic+version+len+header is a multiple of 64, newline-terminated.
	total := len(magic) + 2 + 2 + len(header) + 1
	if pad := 64 - total%64; pad != 64 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"

	buf := make([]byte, 0, len(magic)+4+len(header)+rows*cols*4)
	buf = append(buf, magic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, row := range matrix {
		for _, f := range row {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}

	return os.WriteFile(path, buf, 0o644)
}
