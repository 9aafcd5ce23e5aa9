// Command conv-wav filters WAV audio files with a direct dilated
// correlation or convolution.
//
// Usage:
//
//	conv-wav --kernel lowpass:63:0.1 input.wav output.wav
//	conv-wav --kernel box:5 --left constant --right periodic input.wav out.wav
//	conv-wav --kernel "taps:1,-1" --origin 0 --mode convolve input.wav diff.wav
//	conv-wav --kernel box:3 --dilation 4 --vectorize --float32 in.wav out.wav
//
// Every output frame is computed, so the output has the same length, rate,
// bit depth and channel count as the input. Channels are filtered
// concurrently.
package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	directconv "github.com/tphakala/go-direct-conv"
	"github.com/tphakala/go-direct-conv/internal/kernel"
)

const (
	requiredArgs = 2

	// originCentered places the kernel so that its middle tap sits at index 0.
	originCentered = "center"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

// options holds the parsed command line.
type options struct {
	kernelSpec string
	origin     string
	dilation   int
	left       string
	right      string
	mode       string
	vectorize  bool
	float32    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "conv-wav [flags] input.wav output.wav",
		Short: "Filter a WAV file with a direct dilated convolution",
		Long: `conv-wav correlates (or convolves) every channel of a WAV file with a
finite kernel. Samples beyond either end of the file are synthesized by the
chosen boundary policy: zero, constant, periodic or mirror.

Kernels:
  taps:a,b,c,...            explicit weights
  box:N                     N-tap moving average
  lowpass:N:cutoff[:window] windowed-sinc low-pass, cutoff in cycles/sample
                            (window: kaiser, hann, hamming, blackman)`,
		Args:         cobra.ExactArgs(requiredArgs),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.kernelSpec, "kernel", "k", "box:3", "kernel specification")
	f.StringVar(&opts.origin, "origin", originCentered, `index of the first tap, or "center"`)
	f.IntVarP(&opts.dilation, "dilation", "d", 1, "tap spacing in samples (nonzero, may be negative)")
	f.StringVar(&opts.left, "left", "mirror", "left boundary policy: zero, constant, periodic, mirror")
	f.StringVar(&opts.right, "right", "mirror", "right boundary policy: zero, constant, periodic, mirror")
	f.StringVarP(&opts.mode, "mode", "m", "correlate", "correlate or convolve")
	f.BoolVar(&opts.vectorize, "vectorize", false, "use SIMD for the interior (last-bit differences allowed)")
	f.BoolVar(&opts.float32, "float32", false, "process in float32 instead of float64")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	return cmd
}

func run(opts *options, inputPath, outputPath string) error {
	k, err := kernel.Parse(opts.kernelSpec)
	if err != nil {
		return err
	}
	if err := placeKernel(&k, opts.origin); err != nil {
		return err
	}

	cfg, mode, err := buildConfig(opts, k)
	if err != nil {
		return err
	}

	if opts.verbose {
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		log.Printf("Kernel: %d taps on %v, dilation %d", len(k.Taps), cfg.KernelDomain, cfg.Dilation)
		log.Printf("Edges: left=%s right=%s", cfg.Left, cfg.Right)
		log.Printf("Mode: %s, accumulation: %s", mode, cfg.Accumulation)
		if opts.float32 {
			log.Printf("Precision: float32")
		} else {
			log.Printf("Precision: float64")
		}
	}

	start := time.Now()
	var stats *convStats
	if opts.float32 {
		stats, err = filterWAV(inputPath, outputPath, &cfg, mode, k.Float32(), opts.verbose)
	} else {
		stats, err = filterWAV(inputPath, outputPath, &cfg, mode, k.Taps, opts.verbose)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Filtered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz, %d channels, %d-bit, %d frames\n",
		stats.rate, stats.channels, stats.bitDepth, stats.frames)
	if stats.rate > 0 && elapsed > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(),
			float64(stats.frames)/float64(stats.rate)/elapsed.Seconds())
	}

	return nil
}

// placeKernel moves the kernel domain so that its first tap is at origin.
func placeKernel(k *kernel.Kernel, origin string) error {
	if origin == originCentered {
		*k = kernel.Centered(k.Taps)
		return nil
	}
	var first int
	if _, err := fmt.Sscan(origin, &first); err != nil {
		return fmt.Errorf("invalid --origin %q: %w", origin, err)
	}
	*k = kernel.At(k.Taps, first)
	return nil
}

func buildConfig(opts *options, k kernel.Kernel) (directconv.Config, directconv.Mode, error) {
	left, err := directconv.ParseBoundaryKind(opts.left)
	if err != nil {
		return directconv.Config{}, 0, fmt.Errorf("--left: %w", err)
	}
	right, err := directconv.ParseBoundaryKind(opts.right)
	if err != nil {
		return directconv.Config{}, 0, fmt.Errorf("--right: %w", err)
	}
	mode, err := parseMode(opts.mode)
	if err != nil {
		return directconv.Config{}, 0, err
	}

	cfg := directconv.Config{
		KernelDomain: k.Domain,
		Dilation:     opts.dilation,
		Left:         left,
		Right:        right,
		Accumulation: directconv.Ordered,
	}
	if opts.vectorize {
		cfg.Accumulation = directconv.Vectorized
	}
	if err := cfg.Validate(); err != nil {
		return directconv.Config{}, 0, err
	}
	return cfg, mode, nil
}

var errUnknownMode = errors.New("unknown mode")

func parseMode(s string) (directconv.Mode, error) {
	switch s {
	case "correlate", "corr":
		return directconv.ModeCorrelate, nil
	case "convolve", "conv":
		return directconv.ModeConvolve, nil
	default:
		return 0, fmt.Errorf("%w %q (want correlate or convolve)", errUnknownMode, s)
	}
}
