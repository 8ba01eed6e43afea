// Package results persists completed extraction runs so the API can serve
// them without re-running the pipeline.
package results

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

// ErrNotFound is returned when no stored result matches the query.
var ErrNotFound = errors.New("result not found")

// Run status values mirrored into storage.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// StoredResult is one persisted extraction run.
type StoredResult struct {
	ID         string                 `json:"id"`
	RunID      string                 `json:"run_id"`
	GaugeID    string                 `json:"gauge_id"`
	GaugeName  string                 `json:"gauge_name"`
	Lat        float64                `json:"gauge_lat"`
	Lon        float64                `json:"gauge_lon"`
	HUC02      string                 `json:"huc_02"`
	Status     string                 `json:"status"`
	Attributes map[string]attrs.Value `json:"attributes"`
	Statuses   []attrs.Status         `json:"statuses"`
	CreatedAt  time.Time              `json:"created_at"`
}

// FromResult converts a completed run into its storage form.
func FromResult(res *attrs.Result) *StoredResult {
	stored := &StoredResult{
		ID:         uuid.NewString(),
		RunID:      res.RunID,
		GaugeID:    res.Gauge.ID,
		GaugeName:  res.Gauge.Name,
		Lat:        res.Gauge.Lat,
		Lon:        res.Gauge.Lon,
		HUC02:      res.Gauge.HUC02,
		Status:     StatusOK,
		Attributes: make(map[string]attrs.Value, res.Attributes.Len()),
		Statuses:   append([]attrs.Status(nil), res.Statuses...),
		CreatedAt:  res.CompletedAt,
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	if len(res.DegradedDomains()) > 0 {
		stored.Status = StatusDegraded
	}
	for _, key := range res.Attributes.Keys() {
		v, _ := res.Attributes.Get(key)
		stored.Attributes[key] = v
	}
	return stored
}

// ListOptions bounds a gauge history query.
type ListOptions struct {
	Limit int
}

// Repository defines the interface for extraction result persistence.
type Repository interface {
	// Save persists a completed extraction run.
	Save(ctx context.Context, result *StoredResult) error

	// LatestByGauge retrieves the most recent result for a gauge.
	// Returns ErrNotFound if the gauge has never been extracted.
	LatestByGauge(ctx context.Context, gaugeID string) (*StoredResult, error)

	// ListByGauge retrieves a gauge's extraction history, newest first.
	ListByGauge(ctx context.Context, gaugeID string, opts ListOptions) ([]*StoredResult, error)
}
