package npzfix

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Member is one little-endian float64 array stored the way numpy.savez does:
// a deflated "<Key>.npy" entry. Data is written as given, so Fortran members
// must already be in column-major order.
type Member struct {
	Key     string
	Shape   []int
	Fortran bool
	Data    []float64
}

// WriteNumPy creates dir/name with members laid out as numpy writes them.
func WriteNumPy(t *testing.T, dir, name string, members ...Member) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: m.Key + ".npy", Method: zip.Deflate})
		if err != nil {
			t.Fatalf("create member %s: %v", m.Key, err)
		}
		if _, err := w.Write(encodeNPY(m)); err != nil {
			t.Fatalf("write member %s: %v", m.Key, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
	return path
}

func encodeNPY(m Member) []byte {
	dims := make([]string, len(m.Shape))
	for i, d := range m.Shape {
		dims[i] = fmt.Sprint(d)
	}
	shape := "(" + strings.Join(dims, ", ") + ")"
	if len(m.Shape) == 1 {
		shape = fmt.Sprintf("(%d,)", m.Shape[0])
	}
	order := "False"
	if m.Fortran {
		order = "True"
	}
	dict := fmt.Sprintf("{'descr': '<f8', 'fortran_order': %s, 'shape': %s, }", order, shape)

	// magic(6) + version(2) + length(2) + dict + padding + newline is a multiple of 64.
	pad := 64 - (10+len(dict)+1)%64
	if pad == 64 {
		pad = 0
	}
	header := dict + strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	_ = binary.Write(&buf, binary.LittleEndian, m.Data)
	return buf.Bytes()
}
