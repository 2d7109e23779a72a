// Package random provides the seeded random source shared by every transform
// in a run.
package random

import (
	"math/rand"
	"time"
)

// Source wraps a *rand.Rand with the draw helpers the transforms need.
// A Source is not safe for concurrent use; runs are sequential.
type Source struct {
	seed int64
	rnd  *rand.Rand
}

// New returns a Source seeded with seed. A zero seed is replaced with the
// current time so that unseeded runs differ.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}
	return &Source{seed: seed, rnd: rand.New(rand.NewSource(seed))}
}

// Seed returns the seed actually in use.
func (s *Source) Seed() int64 {
	return s.seed
}

// IntRange returns an int in [lo, hi], both inclusive.
func (s *Source) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.Intn(hi-lo+1)
}

// Uniform returns a float64 in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.Float64()*(hi-lo)
}

// Roll returns a percentile roll in [1, 100].
func (s *Source) Roll() int {
	return s.IntRange(1, 100)
}

// Coin returns true half of the time.
func (s *Source) Coin() bool {
	return s.rnd.Intn(2) == 1
}

// Choice returns a uniformly chosen element of items. It panics on an empty
// slice, like rand.Intn(0).
func Choice[T any](s *Source, items []T) T {
	return items[s.rnd.Intn(len(items))]
}
