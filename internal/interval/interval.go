// Package interval implements closed integer intervals and the set
// operations used to partition a convolution output domain.
package interval

import (
	"errors"
	"fmt"
)

// ErrZeroScale is returned by Scale when the scale factor is zero.
var ErrZeroScale = errors.New("interval: scale factor must be nonzero")

// Interval is the inclusive index range [L, U]. It is empty when U < L.
// All operations accept empty intervals.
type Interval struct {
	L int
	U int
}

// New returns the interval [l, u].
func New(l, u int) Interval {
	return Interval{L: l, U: u}
}

// Len returns U - L + 1. The result is <= 0 for an empty interval.
func (i Interval) Len() int {
	return i.U - i.L + 1
}

// Empty reports whether the interval contains no integers.
func (i Interval) Empty() bool {
	return i.U < i.L
}

// Contains reports whether k lies in [L, U].
func (i Interval) Contains(k int) bool {
	return i.L <= k && k <= i.U
}

// Shift returns [L+d, U+d].
func (i Interval) Shift(d int) Interval {
	return Interval{L: i.L + d, U: i.U + d}
}

func (i Interval) String() string {
	return fmt.Sprintf("[%d, %d]", i.L, i.U)
}

// Scale returns lambda*I with its bounds re-sorted, so a negative lambda
// both flips and stretches the interval.
func Scale(lambda int, i Interval) (Interval, error) {
	switch {
	case lambda > 0:
		return Interval{L: lambda * i.L, U: lambda * i.U}, nil
	case lambda < 0:
		return Interval{L: lambda * i.U, U: lambda * i.L}, nil
	default:
		return Interval{}, ErrZeroScale
	}
}

// Intersect returns [max(A.L, B.L), min(A.U, B.U)].
func Intersect(a, b Interval) Interval {
	return Interval{L: max(a.L, b.L), U: min(a.U, b.U)}
}

// LeftComplement returns the part of A strictly left of B.
func LeftComplement(a, b Interval) Interval {
	return Interval{L: a.L, U: min(a.U, b.L-1)}
}

// RightComplement returns the part of A strictly right of B.
//
// An empty B is treated as [B.L, B.L-1] so that the left and right
// complements split A at B.L rather than overlapping.
func RightComplement(a, b Interval) Interval {
	upper := b.U
	if b.Empty() {
		upper = b.L - 1
	}
	return Interval{L: max(a.L, upper+1), U: a.U}
}

// Partition splits A into the parts left of, inside and right of B.
// The three results are pairwise disjoint and their union is A.
func Partition(a, b Interval) (left, mid, right Interval) {
	return LeftComplement(a, b), Intersect(a, b), RightComplement(a, b)
}
