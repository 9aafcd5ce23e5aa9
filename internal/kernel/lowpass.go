package kernel

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	maxTaps            = 8191
	defaultAttenuation = 80.0 // dB, Kaiser window only

	sincZeroThreshold = 1e-10

	// Kaiser beta from stopband attenuation (Kaiser 1974).
	kaiserHighAtten  = 50.0
	kaiserLowAtten   = 21.0
	kaiserHighSlope  = 0.1102
	kaiserHighOffset = 8.7
	kaiserMidCoeff   = 0.5842
	kaiserMidExp     = 0.4
	kaiserMidSlope   = 0.07886

	besselEpsilon = 1e-17
	besselMaxTerm = 500
)

// Window selects the taper applied to the ideal sinc response.
type Window int

const (
	WindowKaiser Window = iota
	WindowHann
	WindowHamming
	WindowBlackman
)

func (w Window) String() string {
	switch w {
	case WindowKaiser:
		return "kaiser"
	case WindowHann:
		return "hann"
	case WindowHamming:
		return "hamming"
	case WindowBlackman:
		return "blackman"
	default:
		return fmt.Sprintf("Window(%d)", int(w))
	}
}

// ParseWindow maps a window name to a Window.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kaiser":
		return WindowKaiser, nil
	case "hann", "hanning":
		return WindowHann, nil
	case "hamming":
		return WindowHamming, nil
	case "blackman":
		return WindowBlackman, nil
	default:
		return 0, fmt.Errorf("%w: unknown window %q", ErrInvalidKernel, s)
	}
}

// LowPassParams holds parameters for a windowed-sinc lowpass kernel.
type LowPassParams struct {
	// NumTaps is the kernel length. Odd lengths give a kernel centred on a tap.
	NumTaps int

	// Cutoff is the normalized cutoff frequency in (0, 0.5).
	Cutoff float64

	Window Window

	// Attenuation is the Kaiser stopband attenuation in dB. Ignored by the
	// fixed windows.
	Attenuation float64
}

// Validate checks if lowpass parameters are valid.
func (p *LowPassParams) Validate() error {
	if p.NumTaps < 1 || p.NumTaps > maxTaps {
		return fmt.Errorf("%w: lowpass length %d outside [1, %d]", ErrInvalidKernel, p.NumTaps, maxTaps)
	}
	if p.Cutoff <= 0 || p.Cutoff >= 0.5 {
		return fmt.Errorf("%w: cutoff %f must be in (0, 0.5)", ErrInvalidKernel, p.Cutoff)
	}
	if p.Window == WindowKaiser && p.Attenuation < 0 {
		return fmt.Errorf("%w: attenuation %f dB must not be negative", ErrInvalidKernel, p.Attenuation)
	}
	if p.Window < WindowKaiser || p.Window > WindowBlackman {
		return fmt.Errorf("%w: unknown window %d", ErrInvalidKernel, int(p.Window))
	}
	return nil
}

// LowPass designs a centred windowed-sinc lowpass kernel with unit DC gain.
func LowPass(p LowPassParams) (Kernel, error) {
	if err := p.Validate(); err != nil {
		return Kernel{}, err
	}

	n := p.NumTaps
	taps := make([]float64, n)
	for i := range taps {
		taps[i] = 1
	}
	// A single tap has no taper; the symmetric windows divide by n-1.
	if n > 1 {
		switch p.Window {
		case WindowKaiser:
			taps = kaiser(taps, KaiserBeta(p.Attenuation))
		case WindowHann:
			taps = window.Hann(taps)
		case WindowHamming:
			taps = window.Hamming(taps)
		case WindowBlackman:
			taps = window.Blackman(taps)
		}
	}

	center := float64(n-1) / 2
	for i := range taps {
		x := float64(i) - center
		if math.Abs(x) < sincZeroThreshold {
			taps[i] *= 2 * p.Cutoff
		} else {
			taps[i] *= math.Sin(2*math.Pi*p.Cutoff*x) / (math.Pi * x)
		}
	}

	if sum := floats.Sum(taps); math.Abs(sum) > sincZeroThreshold {
		floats.Scale(1/sum, taps)
	}
	return Centered(taps), nil
}

// kaiser multiplies seq in place by a Kaiser window with shape beta and
// returns it.
func kaiser(seq []float64, beta float64) []float64 {
	half := float64(len(seq)-1) / 2
	norm := BesselI0(beta)
	for i := range seq {
		x := (float64(i) - half) / half
		seq[i] *= BesselI0(beta*math.Sqrt(1-x*x)) / norm
	}
	return seq
}

// KaiserBeta returns the Kaiser window shape parameter for a stopband
// attenuation in dB.
func KaiserBeta(attenuation float64) float64 {
	switch {
	case attenuation > kaiserHighAtten:
		return kaiserHighSlope * (attenuation - kaiserHighOffset)
	case attenuation >= kaiserLowAtten:
		d := attenuation - kaiserLowAtten
		return kaiserMidCoeff*math.Pow(d, kaiserMidExp) + kaiserMidSlope*d
	default:
		return 0
	}
}

// BesselI0 evaluates the zeroth-order modified Bessel function of the first
// kind by its power series, sum of ((x/2)^m / m!)^2.
func BesselI0(x float64) float64 {
	half := x / 2
	sum, term := 1.0, 1.0
	for m := 1; m < besselMaxTerm; m++ {
		f := half / float64(m)
		term *= f * f
		sum += term
		if term < besselEpsilon*sum {
			break
		}
	}
	return sum
}
