package docs

import (
	"sync"
	"time"
)

type cacheEntry struct {
	body      string
	fetchedAt time.Time
}

// Store is the in-process document cache: one slot per document key, valid for
// one TTL from the time it was written. The clock is injectable so expiry is
// testable. Concurrent requests may both see an expired slot and refetch; the
// overwrite is idempotent so that is accepted.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func NewStore(ttl time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || s.now().Sub(entry.fetchedAt) >= s.ttl {
		return "", false
	}
	return entry.body, true
}

func (s *Store) Put(key, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = cacheEntry{body: body, fetchedAt: s.now()}
}
