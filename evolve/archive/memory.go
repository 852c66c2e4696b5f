package archive

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryStore keeps records in a map for the life of the process.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string]Record
}

// NewMemoryStore returns an empty store; call Init before saving.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.records = make(map[string]Record)
	return nil
}

func (s *MemoryStore) SaveGenome(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	s.records[record.ID] = record
	return nil
}

func (s *MemoryStore) GetGenome(_ context.Context, id string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	return record, ok, nil
}

func (s *MemoryStore) ListGenomes(_ context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sortRecords(records)
	return records, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Generation != records[j].Generation {
			return records[i].Generation < records[j].Generation
		}
		return records[i].ID < records[j].ID
	})
}
