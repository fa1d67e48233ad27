package session

import (
	"context"
	"sync"
	"time"
)

// Memory is a process-local Store. Sessions are lost on restart and are not
// shared between replicas.
type Memory struct {
	mu    sync.RWMutex
	items map[string]Session
	now   func() time.Time
}

// NewMemory creates an empty store. now defaults to time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{items: make(map[string]Session), now: now}
}

// Save stores s under id, replacing any previous session.
func (m *Memory) Save(_ context.Context, id string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = s
	return nil
}

// Load returns the live session for id, or nil.
func (m *Memory) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[id]
	if !ok || s.Expired(m.now()) {
		return nil, nil
	}
	return &s, nil
}

// Delete removes id; unknown ids are ignored.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Sweep drops expired sessions and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, s := range m.items {
		if s.Expired(now) {
			delete(m.items, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done. onSweep, if set, receives the
// number of sessions removed by each pass.
func (m *Memory) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := m.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
