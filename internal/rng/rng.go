// Package rng provides the deterministic random source every stochastic part of
// the league engine draws from. No external entropy is ever consulted.
package rng

import "fmt"

// Source is a Mulberry32 generator. It is not safe for concurrent use; each
// match owns its own Source.
type Source struct {
	state uint32
}

// New returns a Source whose internal state is the given seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// NewFromString folds a string seed into 32 bits with Hash32.
func NewFromString(seed string) *Source {
	return New(Hash32(seed))
}

// MatchSeed derives the sub-seed of the fixture at index i, so a single match
// can be replayed without replaying the season.
func MatchSeed(base string, i int) string {
	return fmt.Sprintf("%s-match-%d", base, i)
}

// Float64 advances the state and returns a float in [0,1).
func (s *Source) Float64() float64 {
	s.state += 0x6D2B79F5
	t := (s.state ^ s.state>>15) * (s.state | 1)
	t += (t ^ t>>7) * (t | 61)
	return float64(t^t>>14) / 4294967296.0
}

// Intn returns an int in [0,n). n <= 0 yields 0.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.Float64() * float64(n))
}

// Between returns an int in [lo,hi].
func (s *Source) Between(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Bool returns true with probability p.
func (s *Source) Bool(p float64) bool {
	return s.Float64() < p
}
