// Package frame holds the small column table written by the serializers.
package frame

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrLength    = errors.New("frame: column length mismatch")
	ErrDuplicate = errors.New("frame: duplicate column")
)

type Kind int

const (
	Int Kind = iota
	Float
	String
)

// Column is a named vector; exactly one of the slices is used, per Kind.
type Column struct {
	Name    string
	Kind    Kind
	Ints    []int32
	Floats  []float64
	Strings []string
}

func IntColumn(name string, v []int32) Column {
	return Column{Name: name, Kind: Int, Ints: v}
}

func FloatColumn(name string, v []float64) Column {
	return Column{Name: name, Kind: Float, Floats: v}
}

func StringColumn(name string, v []string) Column {
	return Column{Name: name, Kind: String, Strings: v}
}

func (c Column) Len() int {
	switch c.Kind {
	case Int:
		return len(c.Ints)
	case Float:
		return len(c.Floats)
	default:
		return len(c.Strings)
	}
}

// Numeric reports whether the column takes part in descriptive statistics.
func (c Column) Numeric() bool {
	return c.Kind == Int || c.Kind == Float
}

// Float64s returns numeric values as float64; nil for string columns.
func (c Column) Float64s() []float64 {
	switch c.Kind {
	case Float:
		return c.Floats
	case Int:
		out := make([]float64, len(c.Ints))
		for i, v := range c.Ints {
			out[i] = float64(v)
		}
		return out
	default:
		return nil
	}
}

// Cell formats row i the way the CSV mirror prints it.
func (c Column) Cell(i int) string {
	switch c.Kind {
	case Int:
		return strconv.FormatInt(int64(c.Ints[i]), 10)
	case Float:
		return strconv.FormatFloat(c.Floats[i], 'g', -1, 64)
	default:
		return c.Strings[i]
	}
}

// Frame is an ordered set of equally long columns.
type Frame struct {
	cols []Column
}

// New builds a frame, rejecting ragged or duplicated columns.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{}
	for _, c := range cols {
		if err := f.Add(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Add appends a column.
func (f *Frame) Add(c Column) error {
	for _, existing := range f.cols {
		if existing.Name == c.Name {
			return fmt.Errorf("%w: %s", ErrDuplicate, c.Name)
		}
	}
	if len(f.cols) > 0 && c.Len() != f.Rows() {
		return fmt.Errorf("%w: %s has %d rows, frame has %d", ErrLength, c.Name, c.Len(), f.Rows())
	}
	f.cols = append(f.cols, c)
	return nil
}

func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

func (f *Frame) Columns() []Column {
	return f.cols
}

func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name.
func (f *Frame) Column(name string) (Column, bool) {
	for _, c := range f.cols {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
