package roller

import "sync"

// Handle owns the process-wide roller and serializes every access to it.
type Handle struct {
	mu sync.Mutex
	dr *DiceRoller
}

func NewHandle(dr *DiceRoller) *Handle {
	return &Handle{dr: dr}
}

// Do runs fn with exclusive access. fn must not keep dr after returning.
func (h *Handle) Do(fn func(dr *DiceRoller) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return fn(h.dr)
}
