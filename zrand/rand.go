// Package zrand implements the Z-machine `random` opcode's two modes:
// a seeded PRNG stream, and a "predictable" cycling counter.
package zrand

import (
	"crypto/rand"
	mr "math/rand/v2"
)

// Generator holds either a seeded PRNG stream or a predictable cycle
// counter, switching per the `random` opcode's argument sign/magnitude.
type Generator struct {
	predictable       bool
	predictablePeriod uint16
	predictableNext   uint16
	rng               *mr.Rand
}

// NewSeeded constructs a Generator seeded from OS entropy, the default
// mode at load time.
func NewSeeded() *Generator {
	g := &Generator{}
	g.SeedFromEntropy()
	return g
}

// SeedFromEntropy reseeds the stream mode from the OS CSPRNG (the `random
// 0` case).
func (g *Generator) SeedFromEntropy() {
	var seed [32]byte
	_, _ = rand.Read(seed[:])
	g.rng = mr.New(mr.NewChaCha8(seed))
	g.predictable = false
}

// SeedDeterministic seeds the stream mode with an explicit integer seed
// (the `random n` case where n < 0 and |n| >= 1000).
func (g *Generator) SeedDeterministic(seed int64) {
	var b [32]byte
	u := uint64(seed)
	for i := 0; i < 32; i += 8 {
		for j := 0; j < 8; j++ {
			b[i+j] = byte(u >> (56 - 8*j))
		}
		u = u*6364136223846793005 + 1442695040888963407
	}
	g.rng = mr.New(mr.NewChaCha8(b))
	g.predictable = false
}

// SetPredictable switches to the cycling counter mode with the given
// period (the `random n` case where n < 0 and |n| < 1000).
func (g *Generator) SetPredictable(period uint16) {
	g.predictable = true
	g.predictablePeriod = period
	g.predictableNext = 1
}

// Next returns a uniform value in [1, n] in stream mode, or the next
// element of the predictable cycle (n is ignored in that mode).
func (g *Generator) Next(n int16) uint16 {
	if g.predictable {
		v := g.predictableNext
		g.predictableNext++
		if g.predictableNext > g.predictablePeriod {
			g.predictableNext = 1
		}
		return v
	}

	if n <= 0 {
		return 0
	}
	return uint16(g.rng.IntN(int(n))) + 1
}
