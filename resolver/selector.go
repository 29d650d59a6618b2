package resolver

import (
	"math/rand/v2"
	"sync"
)

// picker returns a uniform index in [0, n).
type picker interface {
	IntN(n int) int
}

// globalPicker uses the process-wide generator, which is safe for
// concurrent use.
type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// lockedPicker serializes access to a caller-supplied generator.
type lockedPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (p *lockedPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// WithRand makes selection draw from rng. Access is serialized, so rng
// need not be safe for concurrent use.
func WithRand(rng *rand.Rand) Option {
	return func(r *Resolver) {
		if rng != nil {
			r.picker = &lockedPicker{rng: rng}
		}
	}
}

// WithSeed makes selection deterministic for a given seed.
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed)))
}
