package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"golang.org/x/sync/errgroup"

	directconv "github.com/tphakala/go-direct-conv"
)

const (
	// Channel count constants for fast paths
	monoChannels   = 1
	stereoChannels = 2

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Conversion constants
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag.
	wavFormatPCM = 1
)

var errNoAudio = errors.New("no audio data")

// Float constraint for generic filtering.
type Float interface {
	float32 | float64
}

// convStats summarizes one processed file.
type convStats struct {
	rate     int
	channels int
	bitDepth int
	frames   int
}

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file     *os.File
	decoder  *wav.Decoder
	rate     int
	channels int
	bitDepth int
	format   *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	return &wavInputInfo{
		file:     inputFile,
		decoder:  decoder,
		rate:     format.SampleRate,
		channels: format.NumChannels,
		bitDepth: bitDepth,
		format:   format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// filterWAV reads the whole input, filters each channel over [0, frames-1]
// and writes the result with the input's format.
func filterWAV[F Float](inputPath, outputPath string, cfg *directconv.Config, mode directconv.Mode, kernel []F, verbose bool) (*convStats, error) {
	input, err := openWAVInput(inputPath, verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	buf, err := input.decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}
	if input.channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", input.channels)
	}
	frames := len(buf.Data) / input.channels
	if frames == 0 {
		return nil, fmt.Errorf("%s: %w", inputPath, errNoAudio)
	}

	maxVal := getMaxValue(input.bitDepth)
	channelBufs := make([][]F, input.channels)
	for ch := range channelBufs {
		channelBufs[ch] = make([]F, frames)
	}
	deinterleaveInto(buf.Data, channelBufs, input.channels, frames, 1/maxVal)

	filtered, err := filterChannels(cfg, mode, kernel, channelBufs, verbose)
	if err != nil {
		return nil, err
	}

	buf.Data = buf.Data[:frames*input.channels]
	interleaveInto(filtered, buf.Data, maxVal)

	if err := writeWAV(outputPath, input.rate, input.bitDepth, input.channels, buf); err != nil {
		return nil, err
	}

	return &convStats{
		rate:     input.rate,
		channels: input.channels,
		bitDepth: input.bitDepth,
		frames:   frames,
	}, nil
}

// filterChannels filters every channel concurrently. Each channel gets its
// own output buffer; the kernel and config are shared read-only.
func filterChannels[F Float](cfg *directconv.Config, mode directconv.Mode, kernel []F, channels [][]F, verbose bool) ([][]F, error) {
	out := make([][]F, len(channels))
	taps := directconv.Vector[F]{Data: kernel, Stride: 1}

	var g errgroup.Group
	for ch, signal := range channels {
		g.Go(func() error {
			dst := make([]F, len(signal))
			domain := directconv.NewInterval(0, len(signal)-1)
			err := directconv.Apply(cfg, mode, taps,
				directconv.Vector[F]{Data: signal, Stride: 1}, len(signal),
				directconv.Vector[F]{Data: dst, Stride: 1}, domain)
			if err != nil {
				return fmt.Errorf("filtering failed on channel %d: %w", ch, err)
			}
			out[ch] = dst
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if verbose && len(channels) > 0 {
		regions, err := directconv.Plan(cfg, mode, len(channels[0]), directconv.NewInterval(0, len(channels[0])-1))
		if err == nil {
			log.Printf("Regions: left %v, interior %v, right %v", regions.Left, regions.Interior, regions.Right)
		}
	}

	return out, nil
}

// writeWAV encodes buf as PCM with the given format.
func writeWAV(path string, sampleRate, bitDepth, channels int, buf *audio.IntBuffer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	// Close finalizes the RIFF sizes in the header.
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV header: %w", err)
	}
	return nil
}

// getMaxValue returns the maximum sample value for the given bit depth.
func getMaxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

// deinterleaveInto converts interleaved int samples into preallocated per-channel buffers.
func deinterleaveInto[F Float](data []int, channelBufs [][]F, numChannels, samplesPerChannel int, invMaxVal float64) {
	// Fast path for mono
	if numChannels == monoChannels {
		buf := channelBufs[0]
		for i := range samplesPerChannel {
			buf[i] = F(float64(data[i]) * invMaxVal)
		}
		return
	}

	// Fast path for stereo
	if numChannels == stereoChannels {
		buf0, buf1 := channelBufs[0], channelBufs[1]
		for i := range samplesPerChannel {
			idx := i * stereoChannels
			buf0[i] = F(float64(data[idx]) * invMaxVal)
			buf1[i] = F(float64(data[idx+1]) * invMaxVal)
		}
		return
	}

	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = F(float64(data[base+ch]) * invMaxVal)
		}
	}
}

// interleaveInto converts per-channel float slices into a preallocated int
// buffer, clamping to [-1, 1]. Returns the number of elements written.
func interleaveInto[F Float](channels [][]F, dst []int, maxVal float64) int {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return 0
	}

	numChannels := len(channels)
	samplesPerChannel := len(channels[0])
	totalLen := samplesPerChannel * numChannels
	if len(dst) < totalLen {
		return 0 // Caller should handle this
	}

	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			dst[base+ch] = toPCM(float64(channels[ch][i]), maxVal)
		}
	}
	return totalLen
}

func toPCM(sample, maxVal float64) int {
	if sample > 1.0 {
		sample = 1.0
	} else if sample < -1.0 {
		sample = -1.0
	}
	return int(math.Round(sample * maxVal))
}
