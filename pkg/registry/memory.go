package registry

import (
	"context"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store for tests and single-run CLI usage.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record // keyed by sourceID + "|" + lowercased style
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func memoryKey(sourceID, style string) string {
	return sourceID + "|" + strings.ToLower(style)
}

func (s *MemoryStore) List(_ context.Context, sourceID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records {
		if sourceID == "" || rec.SaleSourceID == sourceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *MemoryStore) Upsert(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[memoryKey(rec.SaleSourceID, rec.Style)] = rec
	return nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
