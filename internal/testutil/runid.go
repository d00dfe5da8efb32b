package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns predetermined run IDs for tests.
//
// With no IDs configured it counts: "run-1", "run-2", ... so tests that
// only need distinct, stable IDs don't have to list them.
//
// Implements store.RunIDGenerator. Safe for concurrent use.
type FixedRunIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedRunIDGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedRunIDGenerator("run-a", "run-b")
//	gen.Generate() // "run-a"
//	gen.Generate() // "run-b"
//	gen.Generate() // panic: all run IDs exhausted
func NewFixedRunIDGenerator(ids ...string) *FixedRunIDGenerator {
	return &FixedRunIDGenerator{ids: ids}
}

// Generate returns the next ID.
//
// Panics if an explicit ID list has been consumed, to catch tests that
// start more runs than they expect.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if len(g.ids) == 0 {
		return fmt.Sprintf("run-%d", g.idx)
	}
	if g.idx > len(g.ids) {
		panic("FixedRunIDGenerator: all run IDs exhausted")
	}
	return g.ids[g.idx-1]
}
