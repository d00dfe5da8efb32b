package harness

import "sync/atomic"

// Sequencer stamps case results with increasing sequence numbers.
// testutil.DeterministicClock satisfies it.
type Sequencer interface {
	Next() int64
}

// Clock is a monotonic logical clock. The first Next returns 1.
// Safe for concurrent use.
type Clock struct {
	seq atomic.Int64
}

func NewClock() *Clock {
	return &Clock{}
}

func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}
