// Package directconv computes finite-support 1-D correlation and convolution
// of a short kernel against a long signal, in pure Go.
//
// Output is produced only over an explicit output domain, and samples that a
// kernel tap would read from outside the signal are synthesized by a
// boundary extension policy chosen separately for each edge.
//
// # Features
//
//   - Kernels labelled by an arbitrary integer index domain, not just [0, n)
//   - Integer dilation, including negative values that reverse the kernel
//   - Four edge policies: [ZeroPadding], [Constant], [Periodic], [Mirror]
//   - Strided views over caller-owned buffers, including negative strides
//   - float32 and float64 samples
//   - Optional SIMD interior via github.com/tphakala/simd ([Vectorized])
//
// # Quick Start
//
//	cfg := directconv.DefaultConfig(3) // kernel on [-1, 1], mirrored edges
//	out := make([]float64, len(signal))
//	err := directconv.Correlate(&cfg, []float64{0.25, 0.5, 0.25}, signal, out,
//	    directconv.NewInterval(0, len(signal)-1))
//
// # Index Algebra
//
// For a kernel on domain [l, u], dilation d and output index k, tap t reads
// signal index k + d*t. The output domain is split into three parts:
//
//   - the interior, where every tap reads inside [0, size-1]; these positions
//     are summed with plain strided indexing and no per-sample branches
//   - the left boundary, summed through the Left extension
//   - the right boundary, summed through the Right extension
//
// The interior is the output domain intersected with
// [-min(d*t), size-1-max(d*t)]. Use [Plan] to inspect the split.
//
// # Numeric Reproducibility
//
// With [Ordered] accumulation each output is the tap-ordered sum
// kernel[0]*x0 + kernel[1]*x1 + ... and is reproducible bit for bit. The
// [Vectorized] mode lets SIMD kernels reorder the interior sum.
//
// # Concurrency
//
// Calls hold no shared state. Concurrent calls are safe as long as their
// output ranges do not overlap.
package directconv
