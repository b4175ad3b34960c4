package rate

import (
	"context"
	"sync"
	"time"
)

type windowState struct {
	start time.Time
	count int64
}

// MemoryStore keeps fixed-window counters in process memory. Entries whose
// window has elapsed are reset lazily on the next increment; no sweeper
// goroutine is needed for correctness.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]*windowState
	now    func() time.Time
}

// NewMemoryStore creates an empty in-process counter store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[string]*windowState),
		now:    time.Now,
	}
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[key]
	if !ok || !now.Before(st.start.Add(window)) {
		st = &windowState{start: now}
		s.states[key] = st
	}
	st.count++

	return st.count, st.start.Add(window).Sub(now), nil
}

// Evict drops every entry whose window has fully elapsed. Callers may run
// it periodically to bound memory; counters stay correct without it.
func (s *MemoryStore) Evict(window time.Duration) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, st := range s.states {
		if !now.Before(st.start.Add(window)) {
			delete(s.states, key)
		}
	}
}

// Len reports the number of live window states.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
