package testutil

import (
	"fmt"
	"sync"
)

// SequenceUUIDGenerator returns predictable UUID strings.
//
// The n-th call returns "00000000-0000-4000-8000-" followed by n as twelve
// hex digits, so generated output can be compared against fixed strings.
//
// Thread-safety: Generate is safe for concurrent use.
type SequenceUUIDGenerator struct {
	mu sync.Mutex
	n  uint64
}

// NewSequenceUUIDGenerator creates a generator whose first UUID ends in ...000000000001.
func NewSequenceUUIDGenerator() *SequenceUUIDGenerator {
	return &SequenceUUIDGenerator{}
}

// Generate returns the next UUID in the sequence.
func (g *SequenceUUIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("00000000-0000-4000-8000-%012x", g.n)
}
