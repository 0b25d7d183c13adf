package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used for local runs without Redis and
// in tests.
type MemoryStore struct {
	mu             sync.RWMutex
	entries        map[string]memoryEntry
	staleRetention time.Duration
	now            func() time.Time
}

type memoryEntry struct {
	entry
	evictAt time.Time
}

func NewMemoryStore(staleRetention time.Duration) *MemoryStore {
	if staleRetention <= 0 {
		staleRetention = DefaultStaleRetention
	}
	return &MemoryStore{
		entries:        make(map[string]memoryEntry),
		staleRetention: staleRetention,
		now:            time.Now,
	}
}

// SetClock replaces the time source.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	now := s.now()
	if !ok || !e.fresh(now) {
		return nil, false
	}
	return e.Value, true
}

func (s *MemoryStore) GetStale(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !s.now().Before(e.evictAt) {
		return nil, false
	}
	return e.Value, true
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[key] = memoryEntry{
		entry:   entry{Value: append([]byte(nil), value...), ExpiresAt: now.Add(ttl)},
		evictAt: now.Add(ttl + s.staleRetention),
	}
}
