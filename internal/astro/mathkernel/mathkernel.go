// Package mathkernel provides the angle arithmetic shared by every
// detector in the event-detection engine: normalization onto the circle,
// shortest-arc separation, local-extremum tests on a three-sample window,
// and the k-combination enumerator used by the composite pattern engine.
//
// All floating-point comparisons here use bare <, <=, >, >= — no epsilon
// is applied. Orb tolerances absorb numerical noise; adding an epsilon on
// top of them would just move the boundary without fixing anything.
package mathkernel

import "math"

// NormalizeDegrees returns x reduced into [0, 360).
func NormalizeDegrees(x float64) float64 {
	const full = 360.0
	r := math.Mod(x, full)
	if r < 0 {
		r += full
	}
	return r
}

// ShortestArc returns the shortest angular separation between a and b,
// in [0, 180]. Both inputs are normalized before comparison.
func ShortestArc(a, b float64) float64 {
	d := NormalizeDegrees(a) - NormalizeDegrees(b)
	if d < 0 {
		d = -d
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}

// NormalizeForComparison offsets current by ±360° so that it lies within
// 180° of reference. Used when a stream of longitudes must be treated as
// continuous across the 0°/360° wrap, e.g. before taking a numeric
// derivative or testing a sign change near the boundary.
func NormalizeForComparison(current, reference float64) float64 {
	c := current
	for c-reference > 180 {
		c -= 360
	}
	for c-reference < -180 {
		c += 360
	}
	return c
}

// Window is three adjacent samples of a scalar quantity: the minute
// before, the minute itself, and the minute after.
type Window struct {
	Previous float64
	Current  float64
	Next     float64
}

// IsMaximum reports whether w.Current is a strict local maximum: previous
// < current > next. Ties resolve to false, matching the source's
// "no event on a plateau" behavior.
func (w Window) IsMaximum() bool {
	return w.Previous < w.Current && w.Current > w.Next
}

// IsMinimum reports whether w.Current is a strict local minimum: previous
// > current < next. Ties resolve to false.
func (w Window) IsMinimum() bool {
	return w.Previous > w.Current && w.Current < w.Next
}

// Combinations enumerates every unordered k-subset of arr, preserving
// arr's relative order within each subset. It is the search primitive the
// composite pattern engine uses to walk candidate body tuples.
func Combinations[T any](arr []T, k int) [][]T {
	n := len(arr)
	if k < 0 || k > n {
		return nil
	}
	if k == 0 {
		return [][]T{{}}
	}

	result := make([][]T, 0)
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		combo := make([]T, k)
		for i, j := range idx {
			combo[i] = arr[j]
		}
		result = append(result, combo)

		// advance idx to the next combination, odometer-style from the
		// rightmost position that still has room to grow.
		pos := k - 1
		for pos >= 0 && idx[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			break
		}
		idx[pos]++
		for i := pos + 1; i < k; i++ {
			idx[i] = idx[i-1] + 1
		}
	}

	return result
}
