package watershed

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/geo"
)

// BasinProvider fetches the contributing basin polygon for a gauge.
type BasinProvider interface {
	FetchBasin(ctx context.Context, gaugeID string) (geo.Polygon, error)
}

// SiteProvider fetches gauge site metadata.
type SiteProvider interface {
	FetchSite(ctx context.Context, gaugeID string) (*Site, error)
}

// ServiceConfig holds configuration for the delineation service.
type ServiceConfig struct {
	// Basins is the basin polygon provider (NLDI).
	Basins BasinProvider

	// Sites is the site metadata provider (NWIS site service).
	Sites SiteProvider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service delineates watersheds by combining the site index and the basin
// navigation service.
type Service struct {
	basins BasinProvider
	sites  SiteProvider
	logger zerolog.Logger
}

// NewService creates a new delineation service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		basins: cfg.Basins,
		sites:  cfg.Sites,
		logger: cfg.Logger,
	}
}

// Delineate resolves the gauge site and its contributing basin. Any failure
// is wrapped in a DelineationError because the boundary is required by
// every extraction domain.
func (s *Service) Delineate(ctx context.Context, gaugeID string) (*Boundary, error) {
	start := time.Now()

	site, err := s.sites.FetchSite(ctx, gaugeID)
	if err != nil {
		s.logger.Error().Err(err).Str("gauge_id", gaugeID).Msg("site lookup failed")
		return nil, &DelineationError{GaugeID: gaugeID, Err: err}
	}

	polygon, err := s.basins.FetchBasin(ctx, gaugeID)
	if err != nil {
		s.logger.Error().Err(err).Str("gauge_id", gaugeID).Msg("basin fetch failed")
		return nil, &DelineationError{GaugeID: gaugeID, Err: err}
	}

	boundary := &Boundary{
		Site:     *site,
		Polygon:  polygon,
		AreaKm2:  polygon.AreaKm2(),
		Centroid: polygon.Centroid(),
	}

	s.logger.Info().
		Str("gauge_id", gaugeID).
		Str("gauge_name", site.Name).
		Float64("area_km2", boundary.AreaKm2).
		Dur("duration", time.Since(start)).
		Msg("watershed delineated")

	return boundary, nil
}
