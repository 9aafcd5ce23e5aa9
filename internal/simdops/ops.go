// Package simdops exposes the SIMD kernels used by the convolution engine
// for float32 and float64 through a single generic table.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported sample types.
type Float interface {
	float32 | float64
}

// Ops holds the SIMD entry points for type F.
type Ops[F Float] struct {
	// DotProductUnsafe returns sum(a[i]*b[i]). a and b must have equal length.
	DotProductUnsafe func(a, b []F) F

	// ConvolveValid computes dst[i] = sum_j signal[i+j]*kernel[j] for
	// len(dst) == len(signal)-len(kernel)+1.
	ConvolveValid func(dst, signal, kernel []F)
}

var (
	ops32 = Ops[float32]{
		DotProductUnsafe: f32.DotProductUnsafe,
		ConvolveValid:    f32.ConvolveValid,
	}
	ops64 = Ops[float64]{
		DotProductUnsafe: f64.DotProductUnsafe,
		ConvolveValid:    f64.ConvolveValid,
	}
)

// For returns the Ops table for F.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}
