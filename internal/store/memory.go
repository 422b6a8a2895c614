package store

import (
	"context"
	"sync"
	"time"

	"github.com/tapedeck/api/internal/model"
)

// MemoryStore is a map-backed JobStore used in tests and as a
// standalone mode without Redis. Expiry is checked lazily on read.
type MemoryStore struct {
	mu        sync.RWMutex
	jobs      map[string]entry
	sources   map[string]entry
	results   map[string]entry
	retention time.Duration
	now       func() time.Time
}

type entry struct {
	data      []byte
	job       *model.Job
	expiresAt time.Time
}

func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		jobs:      make(map[string]entry),
		sources:   make(map[string]entry),
		results:   make(map[string]entry),
		retention: retention,
		now:       time.Now,
	}
}

func (s *MemoryStore) expiry() time.Time {
	if s.retention <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.retention)
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (s *MemoryStore) SaveJob(ctx context.Context, job *model.Job) error {
	cp := *job
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[jobKey(job.TaskID, job.Style)] = entry{job: &cp, expiresAt: s.expiry()}
	return nil
}

func (s *MemoryStore) GetJob(ctx context.Context, taskID string, style model.Style) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.jobs[jobKey(taskID, style)]
	if !ok || e.expired(s.now()) {
		return nil, ErrNotFound
	}
	cp := *e.job
	return &cp, nil
}

func (s *MemoryStore) SaveSource(ctx context.Context, taskID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[sourceKey(taskID)] = entry{data: data, expiresAt: s.expiry()}
	return nil
}

func (s *MemoryStore) GetSource(ctx context.Context, taskID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sources[sourceKey(taskID)]
	if !ok || e.expired(s.now()) {
		return nil, ErrNotFound
	}
	return e.data, nil
}

func (s *MemoryStore) SaveResult(ctx context.Context, taskID string, style model.Style, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[resultKey(taskID, style)] = entry{data: data, expiresAt: s.expiry()}
	return nil
}

func (s *MemoryStore) GetResult(ctx context.Context, taskID string, style model.Style) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.results[resultKey(taskID, style)]
	if !ok || e.expired(s.now()) {
		return nil, ErrNotFound
	}
	return e.data, nil
}
