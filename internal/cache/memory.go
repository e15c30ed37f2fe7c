package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type memoryEntry struct {
	variants  map[string][]byte
	expiresAt time.Time
}

// MemoryStore is a bounded in-process Store. Expiry is evaluated against the
// injected Clock on every read.
type MemoryStore struct {
	mu    sync.Mutex
	items *lru.Cache[string, *memoryEntry]
	now   Clock
}

// NewMemoryStore creates a store holding at most size keys, each with at most
// MaxVariantsPerKey variants.
func NewMemoryStore(size int, clock Clock) (*MemoryStore, error) {
	if clock == nil {
		clock = SystemClock
	}
	l, err := lru.New[string, *memoryEntry](size)
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}
	return &MemoryStore{items: l, now: clock}, nil
}

func (s *MemoryStore) Name() string { return "memory" }

// live returns the entry for key if it has not expired. Caller holds s.mu.
func (s *MemoryStore) live(key string) (*memoryEntry, bool) {
	e, ok := s.items.Get(key)
	if !ok {
		return nil, false
	}
	if !s.now().Before(e.expiresAt) {
		s.items.Remove(key)
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) Get(_ context.Context, key, variant string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		return nil, false, nil
	}
	v, ok := e.variants[variant]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key, variant string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(key)
	if !ok {
		e = &memoryEntry{
			variants:  make(map[string][]byte),
			expiresAt: s.now().Add(ttl),
		}
		s.items.Add(key, e)
	}
	if _, exists := e.variants[variant]; !exists && len(e.variants) >= MaxVariantsPerKey {
		return nil
	}
	e.variants[variant] = stored
	return nil
}

func (s *MemoryStore) InvalidateAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.Purge()
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
