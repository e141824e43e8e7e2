// Package summary computes the descriptive statistics printed after a run.
package summary

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Quartile probabilities used by Describe.
const (
	Q1     = 0.25
	Median = 0.5
	Q3     = 0.75
)

// Stats is the count/mean/std/min/quartiles/max block of one column.
type Stats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe summarizes values, ignoring NaN. Std is the sample standard
// deviation, so it is NaN for fewer than two values.
func Describe(values []float64) Stats {
	clean := dropNaN(values)
	if len(clean) == 0 {
		nan := math.NaN()
		return Stats{Mean: nan, Std: nan, Min: nan, Q1: nan, Median: nan, Q3: nan, Max: nan}
	}
	slices.Sort(clean)
	mean, std := stat.MeanStdDev(clean, nil)
	return Stats{
		Count:  len(clean),
		Mean:   mean,
		Std:    std,
		Min:    floats.Min(clean),
		Q1:     percentileSorted(clean, Q1),
		Median: percentileSorted(clean, Median),
		Q3:     percentileSorted(clean, Q3),
		Max:    floats.Max(clean),
	}
}

// percentile returns the p-th percentile of values using linear interpolation
// between closest ranks. The input is not modified.
func percentile(values []float64, p float64) float64 {
	clean := dropNaN(values)
	if len(clean) == 0 {
		return math.NaN()
	}
	slices.Sort(clean)
	return percentileSorted(clean, p)
}

func percentileSorted(sorted []float64, p float64) float64 {
	count := len(sorted)
	idx := p * float64(count-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper || upper >= count {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// PositiveShare counts strictly positive entries.
type PositiveShare struct {
	Count int
	Total int
}

// Ratio is Count/Total, zero for an empty input.
func (p PositiveShare) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Count) / float64(p.Total)
}

// Percent is the ratio scaled to 0..100.
func (p PositiveShare) Percent() float64 {
	return p.Ratio() * 100
}

func Positive(values []float64) PositiveShare {
	share := PositiveShare{Total: len(values)}
	for _, v := range values {
		if v > 0 {
			share.Count++
		}
	}
	return share
}

// Unique returns the distinct values in ascending order; NaN counts once and sorts first.
func Unique(values []float64) []float64 {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.CompactFunc(out, func(a, b float64) bool {
		return a == b || (math.IsNaN(a) && math.IsNaN(b))
	})
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
