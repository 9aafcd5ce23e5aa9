package engine

import (
	"fmt"

	"github.com/tphakala/go-direct-conv/internal/interval"
	"github.com/tphakala/go-direct-conv/internal/simdops"
)

// Vector is a strided view over caller-owned samples.
//
// Logical element i lives at Data[Offset+i*Stride]. Stride may be negative,
// in which case Offset addresses logical element 0 and later elements sit
// at lower positions in Data.
type Vector[F simdops.Float] struct {
	Data   []F
	Offset int
	Stride int
}

// Contiguous returns a unit-stride view of data starting at element 0.
func Contiguous[F simdops.Float](data []F) Vector[F] {
	return Vector[F]{Data: data, Stride: 1}
}

// At returns logical element i.
func (v Vector[F]) At(i int) F {
	return v.Data[v.Offset+i*v.Stride]
}

// Set stores x at logical element i.
func (v Vector[F]) Set(i int, x F) {
	v.Data[v.Offset+i*v.Stride] = x
}

func (v Vector[F]) pos(i int) int {
	return v.Offset + i*v.Stride
}

// check verifies that every logical index in span maps inside Data.
// An empty span is always addressable.
func (v Vector[F]) check(name string, span interval.Interval) error {
	if span.Empty() {
		return nil
	}
	if v.Stride == 0 {
		return fmt.Errorf("%w: %s stride is zero", ErrInvalidStride, name)
	}
	first, last := v.pos(span.L), v.pos(span.U)
	lo, hi := min(first, last), max(first, last)
	if lo < 0 || hi >= len(v.Data) {
		return fmt.Errorf("%w: %s indices %v map to [%d, %d], buffer has %d elements",
			ErrBufferTooSmall, name, span, lo, hi, len(v.Data))
	}
	return nil
}
