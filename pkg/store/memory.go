package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nloeffler/chaosgame/pkg/observability"
)

// MemoryStore is an in-memory session store for development and testing.
// Records are held as serialized JSON, so Get always returns a fresh copy
// and the semantics match the durable backends.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	s.data[rec.ID] = data
	s.mu.Unlock()

	observability.Store().OnPut(ctx, string(KindMemory), rec.ID, len(data))
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	data, ok := s.data[id]
	s.mu.RUnlock()

	observability.Store().OnGet(ctx, string(KindMemory), id, ok)
	if !ok {
		return nil, ErrNotFound
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	return &rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.data, id)
	s.mu.Unlock()

	observability.Store().OnDelete(ctx, string(KindMemory), id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
