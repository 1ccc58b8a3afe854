// Package stats is the single home for the rank statistics used by every
// aggregator in this repository. Keeping percentile and mean in one place
// prevents the drift that creeps in when each report computes them inline.
package stats

import (
	"math"
	"sort"
)

// Percentile returns the interpolated q-th percentile of values for q in
// [0, 100], using linear interpolation on the rank position
// pos = (n-1) * q/100.
//
// values must already be sorted ascending. The function does not sort: an
// unsorted slice yields a wrong (but in-range and non-panicking) result, so
// callers own the sort. ok is false on empty input; a single element is
// returned as-is for any q.
func Percentile(values []float64, q float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	if len(values) == 1 {
		return values[0], true
	}
	pos := float64(len(values)-1) * q / 100.0
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return values[lo], true
	}
	frac := pos - float64(lo)
	return values[lo]*(1-frac) + values[hi]*frac, true
}

// Mean returns the arithmetic mean of values; ok is false on empty input.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// CDFPoint pairs one sample with its cumulative rank fraction.
type CDFPoint struct {
	Value    float64 `json:"value"`
	Fraction float64 `json:"fraction"`
}

// CDF returns the empirical distribution of values: samples sorted ascending,
// point i carrying rank (i+1)/n. Unlike Percentile it copies and sorts its
// input, since the caller's pool order is not meaningful.
func CDF(values []float64) []CDFPoint {
	if len(values) == 0 {
		return nil
	}
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	out := make([]CDFPoint, len(cp))
	n := float64(len(cp))
	for i, v := range cp {
		out[i] = CDFPoint{Value: v, Fraction: float64(i+1) / n}
	}
	return out
}
