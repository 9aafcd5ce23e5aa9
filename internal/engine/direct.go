// Package engine implements direct (time-domain) dilated correlation of a
// short kernel against a long signal over an explicit output domain.
//
// The output domain is split into an interior, where every kernel tap lands
// inside the signal and samples are read with plain strided indexing, and
// left and right boundary regions, where taps are resolved through a
// boundary.Extension. Only the boundary regions pay for extension lookups.
package engine

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-direct-conv/internal/boundary"
	"github.com/tphakala/go-direct-conv/internal/interval"
	"github.com/tphakala/go-direct-conv/internal/simdops"
)

// ErrPrecondition is matched by every error DirectConv returns. A call that
// fails a precondition leaves the output untouched.
var ErrPrecondition = errors.New("engine: precondition violated")

// Precondition errors.
var (
	ErrZeroDilation   = fmt.Errorf("%w: dilation must be nonzero", ErrPrecondition)
	ErrInvalidSize    = fmt.Errorf("%w: signal size must be positive", ErrPrecondition)
	ErrInvalidStride  = fmt.Errorf("%w: invalid stride", ErrPrecondition)
	ErrBufferTooSmall = fmt.Errorf("%w: buffer too small", ErrPrecondition)
	ErrInvalidMode    = fmt.Errorf("%w: unknown accumulation mode", ErrPrecondition)
)

// Accumulation selects how the interior region is summed.
type Accumulation int

const (
	// Ordered sums taps in index order for each output position.
	// Results are reproducible bit for bit.
	Ordered Accumulation = iota

	// Vectorized hands the interior to SIMD kernels when the dilation is 1
	// and kernel and signal have unit stride. Rounding may differ from
	// Ordered in the last bits. Other layouts fall back to Ordered.
	Vectorized
)

func (a Accumulation) String() string {
	switch a {
	case Ordered:
		return "ordered"
	case Vectorized:
		return "vectorized"
	default:
		return fmt.Sprintf("Accumulation(%d)", int(a))
	}
}

// Params describes one DirectConv call.
//
// For every output index k in OutputDomain:
//
//	Output[k] = sum over t in KernelDomain of Kernel[t-KernelDomain.L] * ext(Signal, k + Dilation*t)
//
// where ext reads Signal directly when the index lies in [0, SignalSize-1]
// and otherwise applies the Left or Right extension.
type Params[F simdops.Float] struct {
	Kernel       Vector[F]
	KernelDomain interval.Interval
	Dilation     int

	Signal     Vector[F]
	SignalSize int

	Output       Vector[F]
	OutputDomain interval.Interval

	Left  boundary.Kind
	Right boundary.Kind

	Accumulation Accumulation
}

// Regions is the partition of an output domain.
type Regions struct {
	Left     interval.Interval
	Interior interval.Interval
	Right    interval.Interval
}

// SafeDomain returns the output indices for which every tap of a kernel on
// kernelDomain, dilated by dilation, reads inside [0, signalSize-1].
func SafeDomain(kernelDomain interval.Interval, dilation, signalSize int) (interval.Interval, error) {
	scaled, err := interval.Scale(dilation, kernelDomain)
	if err != nil {
		return interval.Interval{}, ErrZeroDilation
	}
	return interval.New(-scaled.L, signalSize-1-scaled.U), nil
}

// Partition splits outputDomain into the interior and the two boundary
// regions. An empty kernel has no taps, so the whole domain is interior.
func Partition(kernelDomain interval.Interval, dilation, signalSize int, outputDomain interval.Interval) (Regions, error) {
	if dilation == 0 {
		return Regions{}, ErrZeroDilation
	}
	if signalSize <= 0 {
		return Regions{}, fmt.Errorf("%w: got %d", ErrInvalidSize, signalSize)
	}
	if kernelDomain.Empty() {
		return Regions{
			Left:     interval.New(outputDomain.L, outputDomain.L-1),
			Interior: outputDomain,
			Right:    interval.New(outputDomain.U+1, outputDomain.U),
		}, nil
	}

	safe, err := SafeDomain(kernelDomain, dilation, signalSize)
	if err != nil {
		return Regions{}, err
	}
	left, interior, right := interval.Partition(outputDomain, safe)
	return Regions{Left: left, Interior: interior, Right: right}, nil
}

func (p *Params[F]) validate() (Regions, error) {
	regions, err := Partition(p.KernelDomain, p.Dilation, p.SignalSize, p.OutputDomain)
	if err != nil {
		return Regions{}, err
	}
	if err := p.Left.Validate(p.SignalSize); err != nil {
		return Regions{}, fmt.Errorf("%w: left edge: %w", ErrPrecondition, err)
	}
	if err := p.Right.Validate(p.SignalSize); err != nil {
		return Regions{}, fmt.Errorf("%w: right edge: %w", ErrPrecondition, err)
	}
	if p.Accumulation != Ordered && p.Accumulation != Vectorized {
		return Regions{}, fmt.Errorf("%w: %d", ErrInvalidMode, int(p.Accumulation))
	}

	if err := p.Kernel.check("kernel", interval.New(0, p.KernelDomain.Len()-1)); err != nil {
		return Regions{}, err
	}
	if err := p.Signal.check("signal", interval.New(0, p.SignalSize-1)); err != nil {
		return Regions{}, err
	}
	if err := p.Output.check("output", p.OutputDomain); err != nil {
		return Regions{}, err
	}
	return regions, nil
}

// DirectConv overwrites Output over OutputDomain with the dilated
// correlation described by p. All preconditions are checked before the
// output is modified.
func DirectConv[F simdops.Float](p *Params[F]) error {
	regions, err := p.validate()
	if err != nil {
		return err
	}

	// Lookup cannot fail after validate.
	left, _ := boundary.Lookup(p.Left)
	right, _ := boundary.Lookup(p.Right)

	g := p.Output
	for k := p.OutputDomain.L; k <= p.OutputDomain.U; k++ {
		g.Data[g.pos(k)] = 0
	}

	taps := p.KernelDomain.Len()
	if taps <= 0 {
		return nil
	}
	offset := p.Dilation * p.KernelDomain.L

	if p.Accumulation == Vectorized && p.vectorizable() {
		p.interiorSIMD(regions.Interior, taps, offset)
	} else {
		p.interior(regions.Interior, taps, offset)
	}
	p.edge(regions.Left, left, taps, offset)
	p.edge(regions.Right, right, taps, offset)

	return nil
}

// interior accumulates positions whose taps all read inside the signal.
func (p *Params[F]) interior(span interval.Interval, taps, offset int) {
	a, b, g := p.Kernel, p.Signal, p.Output
	bStep := p.Dilation * b.Stride

	for k := span.L; k <= span.U; k++ {
		ai := a.Offset
		bi := b.pos(k + offset)
		var acc F
		for range taps {
			acc += a.Data[ai] * b.Data[bi]
			ai += a.Stride
			bi += bStep
		}
		g.Data[g.pos(k)] += acc
	}
}

// edge accumulates positions where at least one tap may leave the signal.
func (p *Params[F]) edge(span interval.Interval, ext boundary.Extension, taps, offset int) {
	a, g := p.Kernel, p.Output

	for k := span.L; k <= span.U; k++ {
		ai := a.Offset
		j := k + offset
		var acc F
		for range taps {
			acc += a.Data[ai] * boundary.Sample[F](ext, p.Signal, p.SignalSize, j)
			ai += a.Stride
			j += p.Dilation
		}
		g.Data[g.pos(k)] += acc
	}
}

func (p *Params[F]) vectorizable() bool {
	return p.Dilation == 1 && p.Kernel.Stride == 1 && p.Signal.Stride == 1
}

// interiorSIMD is interior for the contiguous, undilated case.
func (p *Params[F]) interiorSIMD(span interval.Interval, taps, offset int) {
	if span.Empty() {
		return
	}
	ops := simdops.For[F]()
	a, b, g := p.Kernel, p.Signal, p.Output

	kernel := a.Data[a.Offset : a.Offset+taps]
	start := b.pos(span.L + offset)
	window := b.Data[start : start+span.Len()+taps-1]

	if g.Stride == 1 {
		ops.ConvolveValid(g.Data[g.pos(span.L):g.pos(span.U)+1], window, kernel)
		return
	}
	for k := span.L; k <= span.U; k++ {
		i := k - span.L
		g.Data[g.pos(k)] = ops.DotProductUnsafe(kernel, window[i:i+taps])
	}
}
