package sim

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync/atomic"
	"time"
)

// rng wraps a seeded PCG stream and counts every draw. A single stream feeds
// all trials of one batch; reseeding mid-batch is forbidden, so two runs with
// the same seed replay bit-identically. The counter makes cache hits
// observable in tests: a served-from-cache evaluate draws nothing.
type rng struct {
	r     *rand.Rand
	calls *atomic.Uint64
}

func newRNG(seed uint64, calls *atomic.Uint64) *rng {
	return &rng{
		r:     rand.New(rand.NewPCG(seed, 0)),
		calls: calls,
	}
}

// IntN returns a uniform int in [0, n).
func (g *rng) IntN(n int) int {
	if g.calls != nil {
		g.calls.Add(1)
	}
	return g.r.IntN(n)
}

// entropySeed produces a seed for unseeded queries from OS entropy, falling
// back to the clock if the entropy source is unavailable.
func entropySeed() uint64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.BigEndian.Uint64(buf[:])
}

// subSeed derives an independent stream seed from a master seed and a stream
// index using a splitmix64 step. Sample-hand refreshes draw from derived
// streams so they never perturb the trial estimator.
func subSeed(seed, stream uint64) uint64 {
	z := seed + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
