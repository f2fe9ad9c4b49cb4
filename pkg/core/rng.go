package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Int64 returns a non-negative pseudo-random int64, handy for deriving seeds.
func (r *RNG) Int64() int64 {
	return r.r.Int64()
}

// FillAlive marks each cell alive with probability one half.
func FillAlive(r *rand.Rand, buf []bool) {
	for i := range buf {
		buf[i] = r.IntN(2) == 1
	}
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
