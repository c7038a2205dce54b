package memory

import (
	"context"
	"sync"

	"github.com/Apurer/rocketshoes-cart/internal/domains/cart/ports"
)

var _ ports.Slot = (*Slot)(nil)

// Slot is an in-memory durable slot for development and tests.
type Slot struct {
	mu      sync.RWMutex
	payload []byte
	stored  bool
	writes  int
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{}
}

// NewSlotWith returns a slot pre-filled with payload.
func NewSlotWith(payload []byte) *Slot {
	s := &Slot{}
	s.payload = clonePayload(payload)
	s.stored = true
	return s
}

func (s *Slot) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.stored {
		return nil, ports.ErrSlotEmpty
	}
	return clonePayload(s.payload), nil
}

func (s *Slot) Store(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payload = clonePayload(payload)
	s.stored = true
	s.writes++
	return nil
}

// Writes reports how many times Store succeeded.
func (s *Slot) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func clonePayload(payload []byte) []byte {
	if payload == nil {
		return nil
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return out
}
