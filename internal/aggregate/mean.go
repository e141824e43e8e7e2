// Package aggregate averages replicate arrays element-wise.
package aggregate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrEmpty         = errors.New("aggregate: no inputs")
	ErrShapeMismatch = errors.New("aggregate: shape mismatch")
	ErrDuplicateID   = errors.New("aggregate: duplicate identifier")
	ErrMissingID     = errors.New("aggregate: missing identifier")
)

// Sum folds arrays into their element-wise sum.
func Sum(arrays [][]float64) ([]float64, error) {
	if len(arrays) == 0 {
		return nil, ErrEmpty
	}
	total := make([]float64, len(arrays[0]))
	for i, a := range arrays {
		if len(a) != len(total) {
			return nil, fmt.Errorf("%w: input %d has %d values, want %d", ErrShapeMismatch, i, len(a), len(total))
		}
		floats.Add(total, a)
	}
	return total, nil
}

// Mean returns the element-wise arithmetic mean of equally sized arrays.
func Mean(arrays [][]float64) ([]float64, error) {
	total, err := Sum(arrays)
	if err != nil {
		return nil, err
	}
	if len(arrays) > 1 {
		floats.Scale(1/float64(len(arrays)), total)
	}
	return total, nil
}
