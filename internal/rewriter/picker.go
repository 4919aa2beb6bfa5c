package rewriter

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses an index in [0, n). Implementations must be safe for
// concurrent use.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// DefaultPicker draws from the runtime's shared random source.
func DefaultPicker() Picker { return globalPicker{} }

type seededPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededPicker returns a reproducible picker.
func NewSeededPicker(seed uint64) Picker {
	return &seededPicker{rng: rand.New(rand.NewPCG(seed, seed))}
}

func (p *seededPicker) IntN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}

// Choose returns a random element of items, or "" when items is empty.
func Choose(p Picker, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[p.IntN(len(items))]
}
