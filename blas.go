package directconv

import (
	"gonum.org/v1/gonum/blas/blas64"
)

// FromBLAS views a gonum BLAS vector as a Vector.
//
// BLAS stores a vector with negative increment starting from the far end of
// Data, so element 0 of such a vector sits at (N-1)*|Inc|. The returned view
// addresses the same logical elements.
func FromBLAS(v blas64.Vector) Vector[float64] {
	if v.Inc >= 0 {
		return Vector[float64]{Data: v.Data, Offset: 0, Stride: v.Inc}
	}
	return Vector[float64]{Data: v.Data, Offset: (v.N - 1) * -v.Inc, Stride: v.Inc}
}
