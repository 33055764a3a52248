package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"
)

// Rand is the single pseudo-random source of one sampling run.
// It is not safe for concurrent use.
type Rand struct {
	r     *mrand.Rand
	seed  uint64
	draws int
}

// NewRand returns a PCG generator seeded from the operating system's entropy source.
// The seed is kept so that a run can be logged and reproduced with NewSeededRand.
func NewRand() (*Rand, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("failed to read random seed: %w", err)
	}
	return NewSeededRand(binary.LittleEndian.Uint64(b[:])), nil
}

// NewSeededRand returns a deterministic generator, two generators with the same seed yield the same draws.
func NewSeededRand(seed uint64) *Rand {
	return &Rand{
		r:    mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

func (r *Rand) Seed() uint64 {
	return r.seed
}

// Draws returns how many values were drawn so far.
func (r *Rand) Draws() int {
	return r.draws
}

// Float64 returns a uniform value in [0, 1).
func (r *Rand) Float64() float64 {
	r.draws++
	return r.r.Float64()
}

// IntN returns a uniform value in [0, n). It panics if n <= 0.
func (r *Rand) IntN(n int) int {
	r.draws++
	return r.r.IntN(n)
}

// open01 returns a uniform value in (0, 1), zero is redrawn so that its logarithm is finite.
func (r *Rand) open01() float64 {
	for {
		if u := r.Float64(); u > 0 {
			return u
		}
	}
}
