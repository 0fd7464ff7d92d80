package repository

import (
	"context"
	"strconv"
	"sync"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
)

// MemoryStore keeps records in process memory.
type MemoryStore[T domain.Record] struct {
	mu      sync.RWMutex
	records []T
	seq     int64
}

func NewMemoryStore[T domain.Record](seed []T) *MemoryStore[T] {
	s := &MemoryStore[T]{}
	s.reset(seed)
	return s
}

// MemoryFactory returns a Factory producing empty in-memory stores.
func MemoryFactory[T domain.Record]() Factory[T] {
	return func(_, _ string) Store[T] {
		return NewMemoryStore[T](nil)
	}
}

func (s *MemoryStore[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]T(nil), s.records...), nil
}

func (s *MemoryStore[T]) Append(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore[T]) Remove(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.RecordID() == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore[T]) NextID(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return strconv.FormatInt(s.seq, 10), nil
}

// Reset replaces the records. The ID sequence only moves forward so IDs
// handed out before the reset stay retired.
func (s *MemoryStore[T]) Reset(_ context.Context, seed []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(seed)
	return nil
}

func (s *MemoryStore[T]) reset(seed []T) {
	s.records = append([]T(nil), seed...)
	if hi := highestNumericID(seed); hi > s.seq {
		s.seq = hi
	}
}
