// Package uniqueid hands out name suffixes that are unique per compilation unit.
package uniqueid

import (
	"strconv"
	"sync"
)

// Supplier returns fresh suffixes. Counters are kept per input name, so
// lowering the same unit twice yields the same names regardless of what ran
// in between. A Supplier is safe for concurrent use.
type Supplier struct {
	mu       sync.Mutex
	counters map[string]int
}

// NewSupplier returns an empty Supplier.
func NewSupplier() *Supplier {
	return &Supplier{counters: make(map[string]int)}
}

// UniqueID returns the next suffix for input.
func (s *Supplier) UniqueID(input string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counters == nil {
		s.counters = make(map[string]int)
	}
	n := s.counters[input]
	s.counters[input] = n + 1
	return strconv.Itoa(n)
}

// Reset forgets the counter of input.
func (s *Supplier) Reset(input string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, input)
}
