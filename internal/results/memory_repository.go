package results

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and single-shot CLI use. Production should
// use PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byGauge map[string][]*StoredResult
}

// NewInMemoryRepository creates a new in-memory results repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byGauge: make(map[string][]*StoredResult),
	}
}

// Save persists a completed extraction run.
func (r *InMemoryRepository) Save(_ context.Context, result *StoredResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *result
	r.byGauge[result.GaugeID] = append(r.byGauge[result.GaugeID], &cpy)
	return nil
}

// LatestByGauge retrieves the most recent result for a gauge.
func (r *InMemoryRepository) LatestByGauge(_ context.Context, gaugeID string) (*StoredResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := r.byGauge[gaugeID]
	if len(runs) == 0 {
		return nil, ErrNotFound
	}

	latest := runs[0]
	for _, run := range runs[1:] {
		if run.CreatedAt.After(latest.CreatedAt) {
			latest = run
		}
	}

	cpy := *latest
	return &cpy, nil
}

// ListByGauge retrieves a gauge's extraction history, newest first.
func (r *InMemoryRepository) ListByGauge(_ context.Context, gaugeID string, opts ListOptions) ([]*StoredResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := r.byGauge[gaugeID]
	out := make([]*StoredResult, 0, len(runs))
	for _, run := range runs {
		cpy := *run
		out = append(out, &cpy)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
