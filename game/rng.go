package game

import (
	"math/rand/v2"
)

// rng is the only source of randomness in a game. Its whole state travels with
// State so a restored engine draws the same numbers as the one it came from.
type rng struct {
	pcg *rand.PCG
}

func newRNG(seed uint64) *rng {
	return &rng{pcg: rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)}
}

// float returns a value in [0, 1) built from the top 53 bits of one draw.
func (r *rng) float() float64 {
	return float64(r.pcg.Uint64()>>11) / (1 << 53)
}

// index returns a value in [0, n). n must be positive.
func (r *rng) index(n int) int {
	return int(r.pcg.Uint64() % uint64(n))
}

func (r *rng) marshal() ([]byte, error) {
	return r.pcg.MarshalBinary()
}

func (r *rng) unmarshal(b []byte) error {
	return r.pcg.UnmarshalBinary(b)
}
