package entitlement

import (
	"context"
	"sync"
)

// MemoryStore keeps state in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	state *State
}

func (m *MemoryStore) Load(context.Context) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == nil {
		return State{}, ErrNoState
	}
	return *m.state, nil
}

func (m *MemoryStore) Save(_ context.Context, s State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = &s
	return nil
}
