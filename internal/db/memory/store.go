// Package memory implements db.Store in process memory with lazy expiry.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/cityscout/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

type entry struct {
	value   []byte
	expires time.Time
}

// Store is a mutex-guarded map. Expired keys are dropped when touched.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]entry), now: time.Now}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close drops every key.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]entry)
}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// Get retrieves a copy of the value.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// SetWithTTL stores a copy of value. A non-positive ttl never expires.
func (s *Store) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = entry{value: append([]byte(nil), value...), expires: s.deadline(ttl)}
	return nil
}

// Expire resets the TTL of a live key.
func (s *Store) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.live(key)
	if !ok {
		return db.ErrKeyNotFound
	}
	e.expires = s.deadline(ttl)
	s.data[key] = e
	return nil
}

// Del removes a live key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(key); !ok {
		return db.ErrKeyNotFound
	}
	delete(s.data, key)
	return nil
}

// Len returns the number of live keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.data {
		if _, ok := s.live(k); ok {
			n++
		}
	}
	return n
}

// live must be called with mu held.
func (s *Store) live(key string) (entry, bool) {
	e, ok := s.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expires.IsZero() && !s.now().Before(e.expires) {
		delete(s.data, key)
		return entry{}, false
	}
	return e, true
}

func (s *Store) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}
