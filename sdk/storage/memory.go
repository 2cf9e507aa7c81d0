package storage

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultSessionTTL approximates a browsing session: entries untouched for
// this long are dropped.
const DefaultSessionTTL = 30 * time.Minute

// MemoryStore keeps session state in process memory with a TTL, matching
// the lifetime semantics of a session-scoped browser store.
type MemoryStore struct {
	cache *gocache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a memory store. A non-positive ttl selects
// DefaultSessionTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{cache: gocache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	cached := v.([]byte)
	copied := make([]byte, len(cached))
	copy(copied, cached)
	return copied, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte) error {
	copied := make([]byte, len(value))
	copy(copied, value)
	s.cache.SetDefault(key, copied)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
