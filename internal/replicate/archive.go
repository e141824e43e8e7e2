package replicate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sbinet/npyio/npy"
	"github.com/sbinet/npyio/npz"
	"golang.org/x/exp/constraints"
)

var (
	ErrMissingField     = errors.New("replicate: missing field")
	ErrUnsupportedDType = errors.New("replicate: unsupported dtype")
	ErrBadLayout        = errors.New("replicate: bad array layout")
)

// Array is a numeric array flattened in row-major order.
type Array struct {
	Shape []int
	Data  []float64
}

// Len returns the number of elements described by the shape.
func (a Array) Len() int {
	if len(a.Shape) == 0 {
		return len(a.Data)
	}
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Matrix returns the dimensions when the array is 2-D.
func (a Array) Matrix() (rows, cols int, ok bool) {
	if len(a.Shape) != 2 {
		return 0, 0, false
	}
	return a.Shape[0], a.Shape[1], true
}

// Load opens one archive and extracts field.
func Load(path, field string) (Array, error) {
	zr, err := npz.Open(path)
	if err != nil {
		return Array{}, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	key, ok := lookupKey(zr.Keys(), field)
	if !ok {
		return Array{}, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	hdr, err := readHeader(zr, key)
	if err != nil {
		return Array{}, err
	}

	data, err := readFloat64(zr, key, hdr.Descr.Type)
	if err != nil {
		return Array{}, err
	}
	shape := append([]int(nil), hdr.Descr.Shape...)
	arr := Array{Shape: shape, Data: data}
	if arr.Len() != len(data) {
		return Array{}, fmt.Errorf("%w: shape %v holds %d values, read %d",
			ErrBadLayout, shape, arr.Len(), len(data))
	}
	if hdr.Descr.Fortran {
		if err := arr.toRowMajor(); err != nil {
			return Array{}, err
		}
	}
	return arr, nil
}

// lookupKey matches field against archive member names with or without the .npy suffix.
func lookupKey(keys []string, field string) (string, bool) {
	for _, k := range keys {
		if strings.TrimSuffix(k, ".npy") == field {
			return k, true
		}
	}
	return "", false
}

// readHeader parses the npy header of member key and releases the member reader.
func readHeader(zr *npz.Reader, key string) (npy.Header, error) {
	rc, err := zr.Open(key)
	if err != nil {
		return npy.Header{}, fmt.Errorf("%w: %v", ErrBadLayout, err)
	}
	defer rc.Close()
	r, err := npy.NewReader(rc)
	if err != nil {
		return npy.Header{}, fmt.Errorf("%w: %s header: %v", ErrBadLayout, key, err)
	}
	return r.Header, nil
}

func readFloat64(zr *npz.Reader, key, dtype string) ([]float64, error) {
	switch strings.TrimLeft(dtype, "<>=|") {
	case "f8":
		var out []float64
		if err := zr.Read(key, &out); err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		return out, nil
	case "f4":
		return readAs[float32](zr, key)
	case "i8":
		return readAs[int64](zr, key)
	case "i4":
		return readAs[int32](zr, key)
	case "i2":
		return readAs[int16](zr, key)
	case "i1":
		return readAs[int8](zr, key)
	case "u8":
		return readAs[uint64](zr, key)
	case "u4":
		return readAs[uint32](zr, key)
	case "u2":
		return readAs[uint16](zr, key)
	case "u1":
		return readAs[uint8](zr, key)
	case "b1":
		var raw []bool
		if err := zr.Read(key, &raw); err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		out := make([]float64, len(raw))
		for i, v := range raw {
			if v {
				out[i] = 1
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, dtype)
	}
}

func readAs[T constraints.Integer | constraints.Float](zr *npz.Reader, key string) ([]float64, error) {
	var raw []T
	if err := zr.Read(key, &raw); err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return toFloat64(raw), nil
}

func toFloat64[T constraints.Integer | constraints.Float](in []T) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

// toRowMajor reorders column-major 2-D data in place; 1-D data is unaffected.
func (a *Array) toRowMajor() error {
	switch len(a.Shape) {
	case 0, 1:
		return nil
	case 2:
		rows, cols := a.Shape[0], a.Shape[1]
		out := make([]float64, len(a.Data))
		for c := 0; c < cols; c++ {
			for r := 0; r < rows; r++ {
				out[r*cols+c] = a.Data[c*rows+r]
			}
		}
		a.Data = out
		return nil
	default:
		return fmt.Errorf("%w: fortran order with %d dimensions", ErrBadLayout, len(a.Shape))
	}
}
