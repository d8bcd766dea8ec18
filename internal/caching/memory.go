package caching

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	lru "github.com/hashicorp/golang-lru"
)

const memoryStoreSize = 1024

type memoryEntry struct {
	value    string
	deadline time.Time
}

// MemoryStore is a process-local Store used when no redis address is
// configured. Entries carry explicit deadlines checked on read, so the
// sliding-TTL contract matches the redis-backed store.
type MemoryStore struct {
	entries *lru.Cache
}

// NewMemoryStore is the constructor for MemoryStore.
func NewMemoryStore() (*MemoryStore, error) {
	entries, err := lru.New(memoryStoreSize)
	if err != nil {
		return nil, errors.Wrap(err, "new lru cache")
	}

	return &MemoryStore{entries: entries}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	cached, ok := s.entries.Get(key)
	if !ok {
		return "", false, nil
	}

	entry := cached.(memoryEntry)
	if gutils.Clock.GetUTCNow().After(entry.deadline) {
		s.entries.Remove(key)
		return "", false, nil
	}

	return entry.value, true, nil
}

func (s *MemoryStore) GetDel(ctx context.Context, key string) (string, bool, error) {
	val, ok, err := s.Get(ctx, key)
	s.entries.Remove(key)
	return val, ok, err
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.entries.Add(key, memoryEntry{
		value:    value,
		deadline: gutils.Clock.GetUTCNow().Add(ttl),
	})

	return nil
}
