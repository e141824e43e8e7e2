package aggregate

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Series pairs values with their identifiers.
type Series[K comparable] struct {
	IDs    []K
	Values []float64
}

// Rejection names an input left out of the mean.
type Rejection struct {
	Index int
	Err   error
}

// Result is an aligned mean plus bookkeeping about the inputs.
type Result[K comparable] struct {
	Series[K]
	Contributors int
	Realigned    []int
	Rejected     []Rejection
}

// SequentialIDs returns 1..n, the identifier order of a row-major flatten.
func SequentialIDs(n int) []int32 {
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i + 1)
	}
	return ids
}

// Align reorders s to follow ref. Both sides must hold unique identifiers and
// exactly the same set of them.
func Align[K comparable](ref []K, s Series[K]) (Series[K], error) {
	if len(s.IDs) != len(s.Values) {
		return Series[K]{}, fmt.Errorf("%w: %d ids for %d values", ErrShapeMismatch, len(s.IDs), len(s.Values))
	}
	pos := make(map[K]int, len(s.IDs))
	for i, id := range s.IDs {
		if _, dup := pos[id]; dup {
			return Series[K]{}, fmt.Errorf("%w: %v", ErrDuplicateID, id)
		}
		pos[id] = i
	}
	if len(s.IDs) != len(ref) {
		return Series[K]{}, fmt.Errorf("%w: %d ids, reference has %d", ErrMissingID, len(s.IDs), len(ref))
	}
	if err := uniqueIDs(ref); err != nil {
		return Series[K]{}, err
	}
	out := Series[K]{IDs: slices.Clone(ref), Values: make([]float64, len(ref))}
	for i, id := range ref {
		j, ok := pos[id]
		if !ok {
			return Series[K]{}, fmt.Errorf("%w: %v", ErrMissingID, id)
		}
		out.Values[i] = s.Values[j]
	}
	return out, nil
}

// AlignedMean averages series against the identifier order of the first one.
// Series with a different order are realigned first; series that cannot be
// aligned are rejected and do not count towards the divisor.
func AlignedMean[K comparable](series []Series[K]) (Result[K], error) {
	if len(series) == 0 {
		return Result[K]{}, ErrEmpty
	}
	ref := series[0]
	if len(ref.IDs) != len(ref.Values) {
		return Result[K]{}, fmt.Errorf("%w: reference has %d ids for %d values", ErrShapeMismatch, len(ref.IDs), len(ref.Values))
	}
	if err := uniqueIDs(ref.IDs); err != nil {
		return Result[K]{}, err
	}
	res := Result[K]{
		Series: Series[K]{IDs: slices.Clone(ref.IDs), Values: make([]float64, len(ref.Values))},
	}
	for i, s := range series {
		if len(s.Values) != len(ref.Values) && slices.Equal(s.IDs, ref.IDs) {
			err := fmt.Errorf("%w: %d values, reference has %d", ErrShapeMismatch, len(s.Values), len(ref.Values))
			res.Rejected = append(res.Rejected, Rejection{Index: i, Err: err})
			continue
		}
		if !slices.Equal(s.IDs, ref.IDs) {
			aligned, err := Align(ref.IDs, s)
			if err != nil {
				res.Rejected = append(res.Rejected, Rejection{Index: i, Err: err})
				continue
			}
			s = aligned
			res.Realigned = append(res.Realigned, i)
		}
		floats.Add(res.Values, s.Values)
		res.Contributors++
	}
	floats.Scale(1/float64(res.Contributors), res.Values)
	return res, nil
}

func uniqueIDs[K comparable](ids []K) error {
	seen := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: %v in reference", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
