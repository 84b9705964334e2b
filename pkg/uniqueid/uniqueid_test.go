package uniqueid

import (
	"sync"
	"testing"
)

func TestUniqueIDPerInput(t *testing.T) {
	s := NewSupplier()

	tests := []struct {
		input    string
		expected string
	}{
		{"a.js", "0"},
		{"a.js", "1"},
		{"b.js", "0"},
		{"a.js", "2"},
		{"b.js", "1"},
	}

	for _, tt := range tests {
		if got := s.UniqueID(tt.input); got != tt.expected {
			t.Errorf("UniqueID(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}

	s.Reset("a.js")
	if got := s.UniqueID("a.js"); got != "0" {
		t.Errorf("expected counter to restart after Reset, got %q", got)
	}
}

func TestUniqueIDConcurrent(t *testing.T) {
	var s Supplier
	const workers, per = 8, 100

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range per {
				id := s.UniqueID("shared.js")
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*per {
		t.Errorf("expected %d ids, got %d", workers*per, len(seen))
	}
}
