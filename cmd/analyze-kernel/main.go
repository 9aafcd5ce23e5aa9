// Command analyze-kernel prints the taps, gain and magnitude response of a
// kernel, and how an output domain splits into boundary and interior
// regions for a given signal length.
//
// Usage:
//
//	analyze-kernel --kernel lowpass:31:0.1:hann
//	analyze-kernel --kernel box:5 --dilation 3 --size 100
package main

import (
	"fmt"
	"io"
	"log"
	"math"
	"math/cmplx"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	directconv "github.com/tphakala/go-direct-conv"
	"github.com/tphakala/go-direct-conv/internal/kernel"
)

const (
	// Zero-padded FFT length for the magnitude response
	defaultFFTSize = 512

	// Number of response rows to print
	defaultResponsePoints = 9

	// Floor for dB conversion of an exact zero
	minMagnitude = 1e-300

	dbScale = 20
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd(w io.Writer) *cobra.Command {
	var (
		spec     string
		dilation int
		size     int
		fftSize  int
		points   int
	)

	cmd := &cobra.Command{
		Use:          "analyze-kernel",
		Short:        "Inspect a convolution kernel",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			k, err := kernel.Parse(spec)
			if err != nil {
				return err
			}
			return analyze(w, k, dilation, size, fftSize, points)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&spec, "kernel", "k", "lowpass:31:0.1", "kernel specification")
	f.IntVarP(&dilation, "dilation", "d", 1, "tap spacing used for the region plan")
	f.IntVarP(&size, "size", "n", 64, "signal length used for the region plan")
	f.IntVar(&fftSize, "fft", defaultFFTSize, "FFT length for the magnitude response")
	f.IntVar(&points, "points", defaultResponsePoints, "number of response rows to print")

	return cmd
}

func analyze(w io.Writer, k kernel.Kernel, dilation, size, fftSize, points int) error {
	fmt.Fprintln(w, "=== Kernel ===")
	fmt.Fprintf(w, "Taps: %d on %v\n", len(k.Taps), k.Domain)
	fmt.Fprintf(w, "DC gain: %.10f\n", floats.Sum(k.Taps))
	fmt.Fprintf(w, "Energy: %.10f\n", floats.Dot(k.Taps, k.Taps))

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"T", "WEIGHT"})
	table.SetBorder(false)
	for i, v := range k.Taps {
		table.Append([]string{strconv.Itoa(k.Domain.L + i), strconv.FormatFloat(v, 'g', 10, 64)})
	}
	table.Render()

	resp, err := magnitudeResponse(k.Taps, fftSize)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n=== Magnitude response ===")
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"FREQ (CYCLES/SAMPLE)", "|H|", "DB"})
	table.SetBorder(false)
	step := max(1, (len(resp)-1)/max(1, points-1))
	for i := 0; i < len(resp); i += step {
		p := resp[i]
		table.Append([]string{
			strconv.FormatFloat(p.freq, 'f', 4, 64),
			strconv.FormatFloat(p.mag, 'f', 6, 64),
			strconv.FormatFloat(toDB(p.mag), 'f', 2, 64),
		})
	}
	table.Render()

	cfg := directconv.Config{
		KernelDomain: k.Domain,
		Dilation:     dilation,
		Left:         directconv.ZeroPadding,
		Right:        directconv.ZeroPadding,
	}
	regions, err := directconv.Plan(&cfg, directconv.ModeCorrelate, size, directconv.NewInterval(0, size-1))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "\n=== Regions for %d samples, dilation %d ===\n", size, dilation)
	fmt.Fprintf(w, "  Left:     %v (%d)\n", regions.Left, max(0, regions.Left.Len()))
	fmt.Fprintf(w, "  Interior: %v (%d)\n", regions.Interior, max(0, regions.Interior.Len()))
	fmt.Fprintf(w, "  Right:    %v (%d)\n", regions.Right, max(0, regions.Right.Len()))
	return nil
}

// responsePoint is one bin of a magnitude response.
type responsePoint struct {
	freq float64
	mag  float64
}

// magnitudeResponse zero-pads taps to n samples and returns |H| for every
// non-negative frequency bin.
func magnitudeResponse(taps []float64, n int) ([]responsePoint, error) {
	if n < len(taps) || n < 2 {
		return nil, fmt.Errorf("fft length %d must be at least 2 and cover %d taps", n, len(taps))
	}
	padded := make([]float64, n)
	copy(padded, taps)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, padded)

	out := make([]responsePoint, len(coeffs))
	for i, c := range coeffs {
		out[i] = responsePoint{freq: fft.Freq(i), mag: cmplx.Abs(c)}
	}
	return out, nil
}

func toDB(mag float64) float64 {
	return dbScale * math.Log10(math.Max(mag, minMagnitude))
}
