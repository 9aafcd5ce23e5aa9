package directconv

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-direct-conv/internal/boundary"
	"github.com/tphakala/go-direct-conv/internal/engine"
	"github.com/tphakala/go-direct-conv/internal/interval"
	"github.com/tphakala/go-direct-conv/internal/simdops"
)

// Interval is the inclusive integer index range [L, U]; it is empty when U < L.
type Interval = interval.Interval

// BoundaryKind selects how samples outside the signal are synthesized.
type BoundaryKind = boundary.Kind

// Boundary extension policies.
const (
	// ZeroPadding reads 0 outside the signal.
	ZeroPadding = boundary.ZeroPadding

	// Constant repeats the nearest edge sample.
	Constant = boundary.Constant

	// Periodic wraps around the signal.
	Periodic = boundary.Periodic

	// Mirror reflects about the edge samples (requires at least 2 samples).
	Mirror = boundary.Mirror
)

// Accumulation selects how the interior region is summed.
type Accumulation = engine.Accumulation

const (
	// Ordered sums taps in index order; results are reproducible bit for bit.
	Ordered = engine.Ordered

	// Vectorized uses SIMD kernels for undilated, unit-stride interiors.
	// The last bits of each output may differ from Ordered.
	Vectorized = engine.Vectorized
)

// Vector is a strided view over caller-owned samples. Logical element i
// lives at Data[Offset+i*Stride].
type Vector[F simdops.Float] = engine.Vector[F]

// Regions is the split of an output domain into boundary and interior parts.
type Regions = engine.Regions

// Mode selects correlation or convolution.
type Mode int

const (
	// ModeCorrelate computes out[k] = sum_t kernel[t] * signal[k + d*t].
	ModeCorrelate Mode = iota

	// ModeConvolve computes out[k] = sum_t kernel[t] * signal[k - d*t].
	ModeConvolve
)

func (m Mode) String() string {
	switch m {
	case ModeCorrelate:
		return "correlate"
	case ModeConvolve:
		return "convolve"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Common errors.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid convolution configuration")

	// ErrPrecondition is matched by every rejected call. The output buffer
	// is never modified when it is returned.
	ErrPrecondition = engine.ErrPrecondition
)

// Config describes a kernel placement and the edge policies for a call.
type Config struct {
	// KernelDomain labels the kernel taps: kernel[i] is the weight of tap
	// KernelDomain.L+i. An empty domain yields an all-zero output.
	KernelDomain Interval

	// Dilation stretches the tap positions. Negative values also reverse
	// them. Must be nonzero.
	Dilation int

	// Left and Right choose the extension applied on each side of the signal.
	Left  BoundaryKind
	Right BoundaryKind

	// Accumulation chooses between ordered and SIMD interior summation.
	Accumulation Accumulation
}

// NewInterval returns the interval [l, u].
func NewInterval(l, u int) Interval {
	return interval.New(l, u)
}

// DefaultConfig returns a configuration for a kernel of the given length
// centred on index 0, undilated, mirrored at both edges.
func DefaultConfig(taps int) Config {
	l := -(taps - 1) / 2
	return Config{
		KernelDomain: interval.New(l, l+taps-1),
		Dilation:     1,
		Left:         Mirror,
		Right:        Mirror,
		Accumulation: Ordered,
	}
}

// Validate checks the parts of the configuration that do not depend on the
// signal.
func (c *Config) Validate() error {
	if c.Dilation == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, engine.ErrZeroDilation)
	}
	if !c.Left.Valid() {
		return fmt.Errorf("%w: %w: left edge: %w", ErrInvalidConfig, ErrPrecondition, boundary.ErrUnknownKind)
	}
	if !c.Right.Valid() {
		return fmt.Errorf("%w: %w: right edge: %w", ErrInvalidConfig, ErrPrecondition, boundary.ErrUnknownKind)
	}
	if c.Accumulation != Ordered && c.Accumulation != Vectorized {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, engine.ErrInvalidMode)
	}
	return nil
}

// ParseBoundaryKind maps a policy name such as "mirror" or "wrap" to its kind.
func ParseBoundaryKind(s string) (BoundaryKind, error) {
	return boundary.ParseKind(s)
}

// Plan reports how an output domain is split for a signal of signalSize
// samples without computing anything.
func Plan(cfg *Config, mode Mode, signalSize int, outputDomain Interval) (Regions, error) {
	if cfg == nil {
		return Regions{}, fmt.Errorf("%w: %w: config is nil", ErrInvalidConfig, ErrPrecondition)
	}
	if err := cfg.Validate(); err != nil {
		return Regions{}, err
	}
	dilation, err := effectiveDilation(cfg, mode)
	if err != nil {
		return Regions{}, err
	}
	return engine.Partition(cfg.KernelDomain, dilation, signalSize, outputDomain)
}

// Apply runs the engine on strided views. signalSize is the number of
// logical signal samples. Output is overwritten over outputDomain only.
func Apply[F simdops.Float](cfg *Config, mode Mode, kernel, signal Vector[F], signalSize int, output Vector[F], outputDomain Interval) error {
	if cfg == nil {
		return fmt.Errorf("%w: %w: config is nil", ErrInvalidConfig, ErrPrecondition)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	dilation, err := effectiveDilation(cfg, mode)
	if err != nil {
		return err
	}

	return engine.DirectConv(&engine.Params[F]{
		Kernel:       kernel,
		KernelDomain: cfg.KernelDomain,
		Dilation:     dilation,
		Signal:       signal,
		SignalSize:   signalSize,
		Output:       output,
		OutputDomain: outputDomain,
		Left:         cfg.Left,
		Right:        cfg.Right,
		Accumulation: cfg.Accumulation,
	})
}

// Correlate computes output[k] = sum_t kernel[t-L] * signal[k + d*t] for every
// k in outputDomain, where L is cfg.KernelDomain.L and d is cfg.Dilation.
// output is indexed directly by k, so outputDomain must lie within
// [0, len(output)-1].
func Correlate(cfg *Config, kernel, signal, output []float64, outputDomain Interval) error {
	return applySlices(cfg, ModeCorrelate, kernel, signal, output, outputDomain)
}

// Convolve is Correlate with the kernel reversed:
// output[k] = sum_t kernel[t-L] * signal[k - d*t].
func Convolve(cfg *Config, kernel, signal, output []float64, outputDomain Interval) error {
	return applySlices(cfg, ModeConvolve, kernel, signal, output, outputDomain)
}

// CorrelateFloat32 is like Correlate but for float32 samples.
func CorrelateFloat32(cfg *Config, kernel, signal, output []float32, outputDomain Interval) error {
	return applySlices(cfg, ModeCorrelate, kernel, signal, output, outputDomain)
}

// ConvolveFloat32 is like Convolve but for float32 samples.
func ConvolveFloat32(cfg *Config, kernel, signal, output []float32, outputDomain Interval) error {
	return applySlices(cfg, ModeConvolve, kernel, signal, output, outputDomain)
}

func applySlices[F simdops.Float](cfg *Config, mode Mode, kernel, signal, output []F, outputDomain Interval) error {
	if cfg == nil {
		return fmt.Errorf("%w: %w: config is nil", ErrInvalidConfig, ErrPrecondition)
	}
	if want := max(cfg.KernelDomain.Len(), 0); len(kernel) != want {
		return fmt.Errorf("%w: %w: kernel has %d taps but domain %v has %d",
			ErrInvalidConfig, ErrPrecondition, len(kernel), cfg.KernelDomain, want)
	}
	return Apply(cfg, mode,
		engine.Contiguous(kernel),
		engine.Contiguous(signal), len(signal),
		engine.Contiguous(output), outputDomain)
}

func effectiveDilation(cfg *Config, mode Mode) (int, error) {
	switch mode {
	case ModeCorrelate:
		return cfg.Dilation, nil
	case ModeConvolve:
		return -cfg.Dilation, nil
	default:
		return 0, fmt.Errorf("%w: %w: unknown mode %d", ErrInvalidConfig, ErrPrecondition, int(mode))
	}
}
