package synth

import (
	"math/rand/v2"
)

// Source is the randomness consumed by the generators. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// NewSource returns a PCG backed source. A zero seed draws a random one.
func NewSource(seed uint64) *rand.Rand {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // synthetic data only
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // synthetic data only
}

// Uniform draws a float in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// IntBetween draws an int in [lo, hi], both ends included.
func IntBetween(src Source, lo, hi int) int {
	return lo + src.IntN(hi-lo+1)
}

// Pick returns a uniformly chosen element of items. items must not be empty.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
