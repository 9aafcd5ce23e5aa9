package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	directconv "github.com/tphakala/go-direct-conv"
	"github.com/tphakala/go-direct-conv/internal/kernel"
)

// writeTestWAV writes interleaved 16-bit PCM and returns the file path.
func writeTestWAV(t *testing.T, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, writeWAV(path, 8000, 16, channels, buf))
	return path
}

func readTestWAV(t *testing.T, path string) (*audio.IntBuffer, *wav.Decoder) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	dec := wav.NewDecoder(f)
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	return buf, dec
}

func TestOpenWAVInput_FileNotFound(t *testing.T) {
	_, err := openWAVInput("/nonexistent/file.wav", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestOpenWAVInput_InvalidWAV(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.wav")
	err := os.WriteFile(invalidFile, []byte("not a wav file"), 0o644)
	require.NoError(t, err)

	_, err = openWAVInput(invalidFile, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestOpenWAVInput_Format(t *testing.T) {
	path := writeTestWAV(t, 2, []int{1, -1, 2, -2, 3, -3})

	in, err := openWAVInput(path, false)
	require.NoError(t, err)
	defer func() { _ = in.Close() }()

	assert.Equal(t, 8000, in.rate)
	assert.Equal(t, 2, in.channels)
	assert.Equal(t, 16, in.bitDepth)
}

func TestWriteWAV_InvalidDirectory(t *testing.T) {
	err := writeWAV("/nonexistent/dir/output.wav", 48000, 16, 2, &audio.IntBuffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create output file")
}

func TestFilterWAV_IdentityRoundTrip(t *testing.T) {
	data := []int{100, -100, 2000, -2000, 30000, -30000, 0, 7, -32767, 32767}
	in := writeTestWAV(t, 2, data)
	out := filepath.Join(t.TempDir(), "out.wav")

	cfg := directconv.Config{
		KernelDomain: directconv.NewInterval(0, 0),
		Dilation:     1,
		Left:         directconv.Mirror,
		Right:        directconv.Periodic,
	}

	stats, err := filterWAV(in, out, &cfg, directconv.ModeCorrelate, []float64{1}, false)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.frames)
	assert.Equal(t, 2, stats.channels)

	got, dec := readTestWAV(t, out)
	assert.Equal(t, data, got.Data)
	assert.Equal(t, 2, int(dec.NumChans))
	assert.Equal(t, 8000, int(dec.SampleRate))
}

func TestFilterWAV_Float32Difference(t *testing.T) {
	data := []int{1000, 3000, 6000, 10000}
	in := writeTestWAV(t, 1, data)
	out := filepath.Join(t.TempDir(), "out.wav")

	// First difference with zero padding: y[k] = x[k] - x[k-1].
	cfg := directconv.Config{
		KernelDomain: directconv.NewInterval(0, 1),
		Dilation:     1,
		Left:         directconv.ZeroPadding,
		Right:        directconv.ZeroPadding,
	}
	_, err := filterWAV(in, out, &cfg, directconv.ModeConvolve, []float32{1, -1}, false)
	require.NoError(t, err)

	got, _ := readTestWAV(t, out)
	assert.Equal(t, []int{1000, 2000, 3000, 4000}, got.Data)
}

func TestFilterWAV_Errors(t *testing.T) {
	cfg := directconv.DefaultConfig(1)

	_, err := filterWAV("/nonexistent/file.wav", filepath.Join(t.TempDir(), "o.wav"), &cfg,
		directconv.ModeCorrelate, []float64{1}, false)
	require.Error(t, err)

	// Mirror needs at least two frames.
	in := writeTestWAV(t, 1, []int{5})
	cfg = directconv.DefaultConfig(3)
	_, err = filterWAV(in, filepath.Join(t.TempDir(), "o.wav"), &cfg,
		directconv.ModeCorrelate, []float64{1, 1, 1}, false)
	require.ErrorIs(t, err, directconv.ErrPrecondition)
	assert.Contains(t, err.Error(), "channel 0")
}

func TestFilterChannels_MatchesCorrelate(t *testing.T) {
	left := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	right := []float64{-0.5, 0.25, 0, 0.75, -0.125, 1}
	k := []float64{0.25, 0.5, 0.25}
	cfg := directconv.DefaultConfig(3)

	got, err := filterChannels(&cfg, directconv.ModeCorrelate, k, [][]float64{left, right}, true)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for ch, signal := range [][]float64{left, right} {
		want := make([]float64, len(signal))
		require.NoError(t, directconv.Correlate(&cfg, k, signal, want, directconv.NewInterval(0, len(signal)-1)))
		assert.Equal(t, want, got[ch], "channel %d", ch)
	}
}

func TestDeinterleaveInto(t *testing.T) {
	tests := []struct {
		name     string
		channels int
		data     []int
		want     [][]float64
	}{
		{"mono", 1, []int{1, 2, 3}, [][]float64{{1, 2, 3}}},
		{"stereo", 2, []int{1, -1, 2, -2}, [][]float64{{1, 2}, {-1, -2}}},
		{"surround", 3, []int{1, 2, 3, 4, 5, 6}, [][]float64{{1, 4}, {2, 5}, {3, 6}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := len(tt.data) / tt.channels
			bufs := make([][]float64, tt.channels)
			for ch := range bufs {
				bufs[ch] = make([]float64, frames)
			}
			deinterleaveInto(tt.data, bufs, tt.channels, frames, 1)
			assert.Equal(t, tt.want, bufs)
		})
	}
}

func TestInterleaveInto_Clamps(t *testing.T) {
	dst := make([]int, 6)
	n := interleaveInto([][]float32{{0.5, 2, -3}, {-0.5, 0, 1}}, dst, maxInt16)
	assert.Equal(t, 6, n)
	assert.Equal(t, []int{16384, -16384, 32767, 0, -32767, 32767}, dst)

	assert.Equal(t, 0, interleaveInto([][]float64{{1, 2}}, make([]int, 1), maxInt16))
	assert.Equal(t, 0, interleaveInto[float64](nil, dst, maxInt16))
}

func TestGetMaxValue(t *testing.T) {
	assert.InDelta(t, maxInt16, getMaxValue(16), 0)
	assert.InDelta(t, maxInt24, getMaxValue(24), 0)
	assert.InDelta(t, maxInt32, getMaxValue(32), 0)
	assert.InDelta(t, maxInt16, getMaxValue(12), 0)
}

func TestParseMode(t *testing.T) {
	m, err := parseMode("convolve")
	require.NoError(t, err)
	assert.Equal(t, directconv.ModeConvolve, m)

	m, err = parseMode("corr")
	require.NoError(t, err)
	assert.Equal(t, directconv.ModeCorrelate, m)

	_, err = parseMode("fft")
	require.ErrorIs(t, err, errUnknownMode)
}

func TestPlaceKernel(t *testing.T) {
	k := kernel.At([]float64{1, 2, 3}, 0)
	require.NoError(t, placeKernel(&k, originCentered))
	assert.Equal(t, directconv.NewInterval(-1, 1), k.Domain)

	require.NoError(t, placeKernel(&k, "-2"))
	assert.Equal(t, directconv.NewInterval(-2, 0), k.Domain)

	require.Error(t, placeKernel(&k, "left"))
}

func TestBuildConfig(t *testing.T) {
	k := kernel.Centered([]float64{1, 1, 1})
	base := options{dilation: 2, left: "zero", right: "wrap", mode: "correlate", vectorize: true}

	cfg, mode, err := buildConfig(&base, k)
	require.NoError(t, err)
	assert.Equal(t, directconv.ModeCorrelate, mode)
	assert.Equal(t, directconv.ZeroPadding, cfg.Left)
	assert.Equal(t, directconv.Periodic, cfg.Right)
	assert.Equal(t, directconv.Vectorized, cfg.Accumulation)
	assert.Equal(t, 2, cfg.Dilation)

	bad := base
	bad.left = "nope"
	_, _, err = buildConfig(&bad, k)
	assert.ErrorContains(t, err, "--left")

	bad = base
	bad.dilation = 0
	_, _, err = buildConfig(&bad, k)
	assert.ErrorIs(t, err, directconv.ErrInvalidConfig)

	bad = base
	bad.mode = "x"
	_, _, err = buildConfig(&bad, k)
	assert.ErrorIs(t, err, errUnknownMode)
}

func TestRootCmd_EndToEnd(t *testing.T) {
	in := writeTestWAV(t, 1, []int{0, 3000, 6000, 9000, 12000, 15000})
	out := filepath.Join(t.TempDir(), "out.wav")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--kernel", "box:3", "--left", "constant", "--right", "constant", in, out})
	require.NoError(t, cmd.Execute())

	got, _ := readTestWAV(t, out)
	assert.Equal(t, []int{1000, 3000, 6000, 9000, 12000, 14000}, got.Data)
}

func TestRootCmd_RequiresTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"only-one.wav"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.Error(t, cmd.Execute())
}
