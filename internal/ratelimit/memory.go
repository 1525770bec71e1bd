package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryStore is a process-local fixed-window counter. Suitable for
// single-instance deployments; multi-instance deployments should use
// RedisStore so all replicas share one window per IP.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

// NewMemoryStore creates an in-process counter store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	// Periodically evict expired windows to prevent memory growth.
	go s.cleanup()
	return s
}

// Incr counts a hit for key, starting a new window if the previous one expired.
func (s *MemoryStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.entries[key]
	if !ok || now.After(e.resetAt) {
		s.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return 1, nil
	}

	e.count++
	return e.count, nil
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := s.now()
		for key, e := range s.entries {
			if now.After(e.resetAt) {
				delete(s.entries, key)
			}
		}
		s.mu.Unlock()
	}
}
