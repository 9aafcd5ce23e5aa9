package boundary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slice adapts a plain slice to Reader.
type slice []float64

func (s slice) At(i int) float64 { return s[i] }

func sample(t *testing.T, k Kind, s slice, idx int) float64 {
	t.Helper()
	e, err := Lookup(k)
	require.NoError(t, err)
	require.NoError(t, k.Validate(len(s)))
	return Sample[float64](e, s, len(s), idx)
}

func TestSample_OutOfRangeLeft(t *testing.T) {
	signal := slice{10, 20, 30, 40, 50}

	tests := []struct {
		kind Kind
		want float64
	}{
		{ZeroPadding, 0},
		{Constant, 10},
		{Periodic, 50},
		{Mirror, 20},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, sample(t, tt.kind, signal, -1), 0)
		})
	}
}

func TestSample_OutOfRangeRight(t *testing.T) {
	signal := slice{10, 20, 30, 40, 50}

	tests := []struct {
		kind Kind
		k    int
		want float64
	}{
		{ZeroPadding, 5, 0},
		{Constant, 7, 50},
		{Periodic, 5, 10},
		{Periodic, 12, 30},
		{Mirror, 5, 40},
		{Mirror, 8, 10},
		{Mirror, 9, 20},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.InDelta(t, tt.want, sample(t, tt.kind, signal, tt.k), 0)
		})
	}
}

func TestSample_InRangeIsIdentity(t *testing.T) {
	signal := slice{10, 20, 30, 40, 50}
	for k := ZeroPadding; k < numKinds; k++ {
		for i := range signal {
			assert.InDelta(t, signal[i], sample(t, k, signal, i), 0, "kind=%v i=%d", k, i)
		}
	}
}

func TestResolve_AlwaysInRange(t *testing.T) {
	for size := 2; size <= 7; size++ {
		for k := ZeroPadding; k < numKinds; k++ {
			e, err := Lookup(k)
			require.NoError(t, err)
			for i := -40; i <= 40; i++ {
				idx, ok := e.Resolve(size, i)
				if !ok {
					assert.Equal(t, ZeroPadding, k)
					continue
				}
				assert.GreaterOrEqual(t, idx, 0)
				assert.Less(t, idx, size)
			}
		}
	}
}

func TestPeriodic_RoundTrip(t *testing.T) {
	e, err := Lookup(Periodic)
	require.NoError(t, err)
	for size := 1; size <= 6; size++ {
		for k := -20; k <= 20; k++ {
			want, _ := e.Resolve(size, k)
			for n := -4; n <= 4; n++ {
				got, _ := e.Resolve(size, k+n*size)
				assert.Equal(t, want, got, "size=%d k=%d n=%d", size, k, n)
			}
		}
	}
}

func TestMirror_SymmetricAboutZero(t *testing.T) {
	e, err := Lookup(Mirror)
	require.NoError(t, err)
	for size := 2; size <= 6; size++ {
		for k := -25; k <= 25; k++ {
			a, _ := e.Resolve(size, k)
			b, _ := e.Resolve(size, -k)
			assert.Equal(t, a, b, "size=%d k=%d", size, k)
		}
	}
}

func TestFloorMod(t *testing.T) {
	tests := []struct {
		D, d, want int
	}{
		{7, 3, 1},
		{-1, 3, 2},
		{-3, 3, 0},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
		{0, 5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorMod(tt.D, tt.d), "FloorMod(%d, %d)", tt.D, tt.d)
	}

	assert.Panics(t, func() { FloorMod(1, 0) })
}

func TestValidate(t *testing.T) {
	require.NoError(t, Mirror.Validate(2))
	require.NoError(t, Periodic.Validate(1))
	require.ErrorIs(t, Mirror.Validate(1), ErrMirrorSize)
	require.ErrorIs(t, Periodic.Validate(0), ErrInvalidSize)
	require.ErrorIs(t, ZeroPadding.Validate(-3), ErrInvalidSize)
	require.ErrorIs(t, Kind(9).Validate(10), ErrUnknownKind)
	require.ErrorIs(t, Kind(-1).Validate(10), ErrUnknownKind)
}

func TestResolve_PanicsOnInvalidSize(t *testing.T) {
	m, _ := Lookup(Mirror)
	assert.Panics(t, func() { m.Resolve(1, 3) })

	p, _ := Lookup(Periodic)
	assert.Panics(t, func() { p.Resolve(0, 3) })
}

func TestLookup_Unknown(t *testing.T) {
	_, err := Lookup(numKinds)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestLookup_KindRoundTrip(t *testing.T) {
	for k := ZeroPadding; k < numKinds; k++ {
		e, err := Lookup(k)
		require.NoError(t, err)
		assert.Equal(t, k, e.Kind())
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"zero":     ZeroPadding,
		"Constant": Constant,
		"wrap":     Periodic,
		" mirror ": Mirror,
		"reflect":  Mirror,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("bogus")
	require.ErrorIs(t, err, ErrUnknownKind)

	for k := ZeroPadding; k < numKinds; k++ {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "Kind(7)", Kind(7).String())
}
