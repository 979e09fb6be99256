// Package core implements the trip computation engine: currency conversion,
// expense splitting, balance aggregation, settlement planning and budget
// allocation. Everything in this package is a pure function over immutable
// inputs; callers pass in a consistent snapshot and get derived values back.
package core

import "math"

// Round2 rounds to 2 decimal places, half-up with ties away from zero. It is
// the single rounding primitive for the whole engine; every component must
// round through it so cent arithmetic stays consistent.
func Round2(v float64) float64 {
	if v < 0 {
		return -math.Floor(-v*100+0.5) / 100
	}
	return math.Floor(v*100+0.5) / 100
}

// Cents converts an amount to integer cents using the same half-up rule as
// Round2. Used where exact integer distribution is required.
func Cents(v float64) int64 {
	if v < 0 {
		return -int64(math.Floor(-v*100 + 0.5))
	}
	return int64(math.Floor(v*100 + 0.5))
}

// FromCents converts integer cents back to a decimal amount.
func FromCents(c int64) float64 {
	return float64(c) / 100
}

// centEpsilon is the tolerance under which two amounts are considered equal.
// One cent absorbs the floating point noise accumulated by repeated Round2
// passes without hiding real imbalances.
const centEpsilon = 0.01
