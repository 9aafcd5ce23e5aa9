// Package kernel builds correlation kernels together with the index domain
// their taps are labelled with.
package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tphakala/go-direct-conv/internal/interval"
)

// ErrInvalidKernel indicates kernel parameters that cannot produce taps.
var ErrInvalidKernel = errors.New("kernel: invalid kernel")

// Kernel is a list of taps and the index labelling them: Taps[i] is the
// weight of tap Domain.L+i.
type Kernel struct {
	Taps   []float64
	Domain interval.Interval
}

// Centered labels taps so that the middle tap (the lower middle for even
// lengths) sits at index 0.
func Centered(taps []float64) Kernel {
	n := len(taps)
	l := -(n - 1) / 2
	return Kernel{Taps: taps, Domain: interval.New(l, l+n-1)}
}

// At labels taps starting at index origin.
func At(taps []float64, origin int) Kernel {
	return Kernel{Taps: taps, Domain: interval.New(origin, origin+len(taps)-1)}
}

// Box returns a centred moving-average kernel of n taps with unit DC gain.
func Box(n int) (Kernel, error) {
	if n < 1 {
		return Kernel{}, fmt.Errorf("%w: box length must be at least 1, got %d", ErrInvalidKernel, n)
	}
	taps := make([]float64, n)
	for i := range taps {
		taps[i] = 1 / float64(n)
	}
	return Centered(taps), nil
}

// Float32 returns the taps converted to float32.
func (k Kernel) Float32() []float32 {
	out := make([]float32, len(k.Taps))
	for i, v := range k.Taps {
		out[i] = float32(v)
	}
	return out
}

// Parse builds a centred kernel from a short description:
//
//	taps:0.25,0.5,0.25          explicit weights
//	box:5                       moving average
//	lowpass:63:0.1[:window]     windowed-sinc lowpass, window is one of
//	                            kaiser (default), hann, hamming, blackman
func Parse(spec string) (Kernel, error) {
	name, args, _ := strings.Cut(strings.TrimSpace(spec), ":")
	switch strings.ToLower(name) {
	case "taps":
		return parseTaps(args)
	case "box":
		n, err := strconv.Atoi(args)
		if err != nil {
			return Kernel{}, fmt.Errorf("%w: box length %q: %w", ErrInvalidKernel, args, err)
		}
		return Box(n)
	case "lowpass":
		return parseLowPass(args)
	default:
		return Kernel{}, fmt.Errorf("%w: unknown kernel %q", ErrInvalidKernel, name)
	}
}

func parseTaps(args string) (Kernel, error) {
	fields := strings.Split(args, ",")
	taps := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Kernel{}, fmt.Errorf("%w: tap %q: %w", ErrInvalidKernel, f, err)
		}
		taps = append(taps, v)
	}
	if len(taps) == 0 {
		return Kernel{}, fmt.Errorf("%w: no taps given", ErrInvalidKernel)
	}
	return Centered(taps), nil
}

func parseLowPass(args string) (Kernel, error) {
	parts := strings.Split(args, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Kernel{}, fmt.Errorf("%w: lowpass wants taps:cutoff[:window], got %q", ErrInvalidKernel, args)
	}
	n, err := strconv.Atoi(parts[0])
	if err != nil {
		return Kernel{}, fmt.Errorf("%w: lowpass length %q: %w", ErrInvalidKernel, parts[0], err)
	}
	cutoff, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Kernel{}, fmt.Errorf("%w: lowpass cutoff %q: %w", ErrInvalidKernel, parts[1], err)
	}
	params := LowPassParams{NumTaps: n, Cutoff: cutoff, Window: WindowKaiser, Attenuation: defaultAttenuation}
	if len(parts) == 3 {
		w, err := ParseWindow(parts[2])
		if err != nil {
			return Kernel{}, err
		}
		params.Window = w
	}
	return LowPass(params)
}
