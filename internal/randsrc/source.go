// Package randsrc provides the pseudo-random sources handed to the lattice
// engine on every stochastic call.
//
// Sources are never global: each simulation owns one and passes it down
// explicitly, so a fixed seed reproduces a run exactly.
package randsrc

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// Source yields uniformly distributed integers in a closed range.
type Source interface {
	// IntN returns a uniform integer in [low, high]. Callers guarantee low <= high.
	IntN(low, high int) int
}

// PCG is a deterministic Source backed by the PCG generator.
// It is not safe for concurrent use.
type PCG struct {
	seed uint64
	rng  *rand.Rand
}

// New returns a PCG source seeded with seed. The same seed always yields the
// same sequence.
func New(seed uint64) *PCG {
	return &PCG{
		seed: seed,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed returns the seed the source was created with.
func (p *PCG) Seed() uint64 {
	return p.seed
}

// IntN returns a uniform integer in [low, high].
func (p *PCG) IntN(low, high int) int {
	return low + p.rng.IntN(high-low+1)
}

// Entropy returns seed material for runs where the user did not pick a seed.
// It reads from the operating system and falls back to the wall clock.
func Entropy() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	seed := binary.LittleEndian.Uint64(buf[:])
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return seed
}

// Scripted replays a fixed sequence of values, ignoring the requested range
// except to clamp into it. It exists for deterministic tests of code that
// takes a Source.
type Scripted struct {
	values []int
	pos    int
}

// NewScripted returns a Scripted source that cycles through values.
func NewScripted(values ...int) *Scripted {
	return &Scripted{values: values}
}

// IntN returns the next scripted value clamped into [low, high].
func (s *Scripted) IntN(low, high int) int {
	if len(s.values) == 0 {
		return low
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// Calls reports how many values have been drawn.
func (s *Scripted) Calls() int {
	return s.pos
}
