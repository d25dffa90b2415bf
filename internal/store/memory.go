package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nvandessel/voter/internal/samples"
)

// InMemoryRunStore implements RunStore for testing and development.
type InMemoryRunStore struct {
	mu      sync.RWMutex
	runs    map[string]Run
	samples map[string][]float64
}

// NewInMemoryRunStore creates a new in-memory store.
func NewInMemoryRunStore() *InMemoryRunStore {
	return &InMemoryRunStore{
		runs:    make(map[string]Run),
		samples: make(map[string][]float64),
	}
}

// CreateRun registers a run.
func (s *InMemoryRunStore) CreateRun(ctx context.Context, params RunParams) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := Run{ID: uuid.New().String(), Params: params, StartedAt: time.Now().UTC()}
	s.runs[run.ID] = run
	return run, nil
}

// RecordSample stores a sample. Sweeps must arrive in order.
func (s *InMemoryRunStore) RecordSample(ctx context.Context, runID string, sweep int, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if sweep != len(s.samples[runID]) {
		return fmt.Errorf("store: sample %d of run %s out of order", sweep, runID)
	}
	s.samples[runID] = append(s.samples[runID], value)
	return nil
}

// FinishRun stores the summary.
func (s *InMemoryRunStore) FinishRun(ctx context.Context, runID string, summary Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	run, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Summary = summary
	s.runs[runID] = run
	return nil
}

// GetRun returns a run by ID.
func (s *InMemoryRunStore) GetRun(ctx context.Context, runID string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[runID]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return run, nil
}

// ListRuns returns all runs, newest first.
func (s *InMemoryRunStore) ListRuns(ctx context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID < runs[j].ID
	})
	return runs, nil
}

// LoadSamples returns a copy of the run's samples.
func (s *InMemoryRunStore) LoadSamples(ctx context.Context, runID string) (*samples.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return samples.FromValues(s.samples[runID]), nil
}

// Close is a no-op.
func (s *InMemoryRunStore) Close() error {
	return nil
}
