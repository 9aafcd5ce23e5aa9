package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-direct-conv/internal/kernel"
)

func TestMagnitudeResponse_Box(t *testing.T) {
	k, err := kernel.Box(2)
	require.NoError(t, err)

	resp, err := magnitudeResponse(k.Taps, 8)
	require.NoError(t, err)
	require.Len(t, resp, 5)

	assert.InDelta(t, 0.0, resp[0].freq, 1e-12)
	assert.InDelta(t, 1.0, resp[0].mag, 1e-12)
	// A two-tap average cancels the Nyquist bin.
	assert.InDelta(t, 0.5, resp[4].freq, 1e-12)
	assert.InDelta(t, 0.0, resp[4].mag, 1e-12)
}

func TestMagnitudeResponse_LowPass(t *testing.T) {
	k, err := kernel.LowPass(kernel.LowPassParams{NumTaps: 63, Cutoff: 0.1, Window: kernel.WindowBlackman})
	require.NoError(t, err)

	resp, err := magnitudeResponse(k.Taps, 1024)
	require.NoError(t, err)

	for _, p := range resp {
		switch {
		case p.freq < 0.05:
			assert.InDelta(t, 1.0, p.mag, 0.01, "passband at %.4f", p.freq)
		case p.freq > 0.2:
			assert.Less(t, toDB(p.mag), -60.0, "stopband at %.4f", p.freq)
		}
	}
}

func TestMagnitudeResponse_TooShort(t *testing.T) {
	_, err := magnitudeResponse([]float64{1, 2, 3}, 2)
	require.Error(t, err)
}

func TestToDB(t *testing.T) {
	assert.InDelta(t, 0.0, toDB(1), 1e-12)
	assert.InDelta(t, -20.0, toDB(0.1), 1e-12)
	assert.InDelta(t, -6000.0, toDB(0), 1e-9)
}

func TestRootCmd_Output(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs([]string{"--kernel", "box:5", "--dilation", "3", "--size", "20"})
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "Taps: 5 on [-2, 2]")
	assert.Contains(t, s, "DC gain: 1.0000000000")
	assert.Contains(t, s, "Left:     [0, 5] (6)")
	assert.Contains(t, s, "Interior: [6, 13] (8)")
	assert.Contains(t, s, "Right:    [14, 19] (6)")
}

func TestRootCmd_BadKernel(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--kernel", "gauss:3"})
	require.ErrorIs(t, cmd.Execute(), kernel.ErrInvalidKernel)
}
