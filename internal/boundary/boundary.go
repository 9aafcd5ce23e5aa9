// Package boundary defines the sampling policies used when a kernel tap
// falls outside a finite 1-D signal.
//
// The set of policies is closed: ZeroPadding, Constant, Periodic and Mirror.
// Each is an Extension that resolves an arbitrary integer index k against a
// signal of a given size. The left and right edges of a convolution may use
// different policies.
package boundary

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by Validate and Lookup.
var (
	// ErrUnknownKind indicates a Kind outside the closed set of policies.
	ErrUnknownKind = errors.New("boundary: unknown extension kind")

	// ErrInvalidSize indicates a signal size that no policy can sample.
	ErrInvalidSize = errors.New("boundary: signal size must be positive")

	// ErrMirrorSize indicates a mirror extension over a single sample,
	// where the reflection period degenerates to zero.
	ErrMirrorSize = errors.New("boundary: mirror extension requires at least 2 samples")
)

// Kind selects a boundary extension policy.
type Kind int

const (
	// ZeroPadding samples 0 outside the signal.
	ZeroPadding Kind = iota

	// Constant holds the nearest edge sample.
	Constant

	// Periodic wraps the index modulo the signal size.
	Periodic

	// Mirror reflects the index about both edges (period 2*(size-1)).
	Mirror

	numKinds
)

var kindNames = [numKinds]string{
	ZeroPadding: "zero",
	Constant:    "constant",
	Periodic:    "periodic",
	Mirror:      "mirror",
}

// String returns the short policy name used on command lines.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k names one of the four policies.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// Validate reports whether the policy can sample a signal of the given size.
func (k Kind) Validate(size int) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	if size <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	if k == Mirror && size == 1 {
		return ErrMirrorSize
	}
	return nil
}

// ParseKind maps a policy name to its Kind. Matching is case-insensitive and
// accepts a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero", "zeros", "zeropadding", "zero-padding":
		return ZeroPadding, nil
	case "constant", "clamp", "hold", "edge":
		return Constant, nil
	case "periodic", "wrap", "circular":
		return Periodic, nil
	case "mirror", "reflect", "symmetric":
		return Mirror, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Extension resolves an index that may lie outside [0, size-1].
//
// Resolve returns the in-range index to read, or ok == false when the
// sample is defined to be zero. Implementations panic if called with a size
// that Validate rejects.
type Extension interface {
	Kind() Kind
	Resolve(size, k int) (idx int, ok bool)

	sealed()
}

// Reader is a random-access view over a finite signal.
type Reader[F any] interface {
	At(i int) F
}

// Sample reads v at k through the extension e.
func Sample[F any, R Reader[F]](e Extension, v R, size, k int) F {
	idx, ok := e.Resolve(size, k)
	if !ok {
		var zero F
		return zero
	}
	return v.At(idx)
}

// table maps each Kind to its Extension. It is built once and never mutated.
var table = [numKinds]Extension{
	ZeroPadding: zeroPadding{},
	Constant:    constant{},
	Periodic:    periodic{},
	Mirror:      mirror{},
}

// Lookup returns the Extension for k.
func Lookup(k Kind) (Extension, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return table[k], nil
}

type zeroPadding struct{}

func (zeroPadding) Kind() Kind { return ZeroPadding }
func (zeroPadding) sealed()    {}

func (zeroPadding) Resolve(size, k int) (int, bool) {
	if k >= 0 && k < size {
		return k, true
	}
	return 0, false
}

type constant struct{}

func (constant) Kind() Kind { return Constant }
func (constant) sealed()    {}

func (constant) Resolve(size, k int) (int, bool) {
	if size <= 0 {
		panic("boundary: constant extension of empty signal")
	}
	switch {
	case k < 0:
		return 0, true
	case k < size:
		return k, true
	default:
		return size - 1, true
	}
}

type periodic struct{}

func (periodic) Kind() Kind { return Periodic }
func (periodic) sealed()    {}

func (periodic) Resolve(size, k int) (int, bool) {
	if size <= 0 {
		panic("boundary: periodic extension of empty signal")
	}
	return FloorMod(k, size), true
}

type mirror struct{}

func (mirror) Kind() Kind { return Mirror }
func (mirror) sealed()    {}

func (mirror) Resolve(size, k int) (int, bool) {
	if size <= 1 {
		panic("boundary: mirror extension requires at least 2 samples")
	}
	last := size - 1
	return last - abs(last-FloorMod(k, 2*last)), true
}

// FloorMod returns the floored modulo of D by d: the result has the sign of
// d, so for d > 0 it lies in [0, d-1]. It panics if d == 0.
func FloorMod(D, d int) int {
	if d == 0 {
		panic("boundary: modulo by zero")
	}
	r := D % d
	if r != 0 && (r < 0) != (d < 0) {
		r += d
	}
	return r
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
