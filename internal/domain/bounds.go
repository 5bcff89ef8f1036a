package domain

import (
	"fmt"
	"math"
)

// Bounds is a closed numeric interval used to normalize scores and factors.
type Bounds struct {
	lo, hi float64
}

// NewBounds validates and creates a Bounds. An inverted range is a
// programming error and is reported as a verification-internal fault.
func NewBounds(lo, hi float64) (Bounds, error) {
	if lo > hi {
		return Bounds{}, fmt.Errorf("%w: invalid clamp range [%g, %g]", ErrVerificationInternal, lo, hi)
	}
	return Bounds{lo: lo, hi: hi}, nil
}

// Clamp returns v restricted to the interval.
func (b Bounds) Clamp(v float64) float64 {
	return math.Max(b.lo, math.Min(b.hi, v))
}

// Min returns the lower bound.
func (b Bounds) Min() float64 { return b.lo }

// Max returns the upper bound.
func (b Bounds) Max() float64 { return b.hi }

// Clamp01 restricts v to the unit interval.
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Round4 rounds v to four decimal places, the precision all scores are
// reported at.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
