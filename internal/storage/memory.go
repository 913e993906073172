package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"perceptron/internal/model"
)

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	records     map[string]model.ConfigurationRecord
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.records = make(map[string]model.ConfigurationRecord)
	return nil
}

func (s *MemoryStore) SaveConfiguration(_ context.Context, record model.ConfigurationRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errors.New("store is not initialized")
	}
	record.UpdatedAt = s.now().UTC()
	record.Weights = cloneWeights(record.Weights)
	s.records[record.Name] = record
	return nil
}

func (s *MemoryStore) GetConfiguration(_ context.Context, name string) (model.ConfigurationRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[name]
	if !ok {
		return model.ConfigurationRecord{}, false, nil
	}
	record.Weights = cloneWeights(record.Weights)
	return record, true, nil
}

func (s *MemoryStore) ListConfigurations(_ context.Context) ([]model.ConfigurationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ConfigurationRecord, 0, len(s.records))
	for _, record := range s.records {
		record.Weights = cloneWeights(record.Weights)
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) DeleteConfiguration(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, name)
	return nil
}

func cloneWeights(weights []float64) []float64 {
	out := make([]float64, len(weights))
	copy(out, weights)
	return out
}
