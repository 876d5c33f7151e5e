package legacy

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// npyMagic opens every numpy .npy file.
var npyMagic = []byte("\x93NUMPY")

// headerPattern matches the Python dict literal numpy writes as the array
// header, e.g. {'descr': '<f4', 'fortran_order': False, 'shape': (12, 384), }.
var headerPattern = regexp.MustCompile(
	`'descr':\s*'([^']+)',\s*'fortran_order':\s*(True|False),\s*'shape':\s*\(([^)]*)\)`)

// ReadMatrix parses a numpy .npy file holding a 2-D little-endian float32
// array in C order, the exact shape the legacy tool saved embeddings in.
// Format versions 1.0 and 2.0 are accepted; anything else is an error and
// the caller treats the cache set as a miss.
func ReadMatrix(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return parseMatrix(data)
}

func parseMatrix(data []byte) ([][]float32, error) {
	if len(data) < len(npyMagic)+2 {
		return nil, fmt.Errorf("npy: file too short")
	}
	if string(data[:len(npyMagic)]) != string(npyMagic) {
		return nil, fmt.Errorf("npy: bad magic")
	}

	major := data[6]
	minor := data[7]
	var headerLen, headerStart int
	switch {
	case major == 1 && minor == 0:
		if len(data) < 10 {
			return nil, fmt.Errorf("npy: truncated v1 header")
		}
		headerLen = int(binary.LittleEndian.Uint16(data[8:10]))
		headerStart = 10
	case major == 2 && minor == 0:
		if len(data) < 12 {
			return nil, fmt.Errorf("npy: truncated v2 header")
		}
		headerLen = int(binary.LittleEndian.Uint32(data[8:12]))
		headerStart = 12
	default:
		return nil, fmt.Errorf("npy: unsupported format version %d.%d", major, minor)
	}

	if len(data) < headerStart+headerLen {
		return nil, fmt.Errorf("npy: header extends past end of file")
	}
	header := string(data[headerStart : headerStart+headerLen])

	m := headerPattern.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("npy: unparseable header %q", strings.TrimSpace(header))
	}
	if m[1] != "<f4" {
		return nil, fmt.Errorf("npy: dtype %s, want <f4", m[1])
	}
	if m[2] != "False" {
		return nil, fmt.Errorf("npy: fortran order not supported")
	}

	dims, err := parseShape(m[3])
	if err != nil {
		return nil, err
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("npy: %d-dimensional array, want 2", len(dims))
	}
	rows, cols := dims[0], dims[1]

	payload := data[headerStart+headerLen:]
	want := rows * cols * 4
	if len(payload) != want {
		return nil, fmt.Errorf("npy: payload is %d bytes, want %d for shape (%d, %d)",
			len(payload), want, rows, cols)
	}

	matrix := make([][]float32, rows)
	for r := 0; r < rows; r++ {
		row := make([]float32, cols)
		base := r * cols * 4
		for c := 0; c < cols; c++ {
			bits := binary.LittleEndian.Uint32(payload[base+c*4:])
			row[c] = math.Float32frombits(bits)
		}
		matrix[r] = row
	}
	return matrix, nil
}

func parseShape(s string) ([]int, error) {
	var dims []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("npy: bad shape element %q", part)
		}
		dims = append(dims, n)
	}
	return dims, nil
}
