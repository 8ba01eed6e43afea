package extractor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/climate"
	"github.com/galib9690/camels-attrs/internal/climate/gridmet"
	"github.com/galib9690/camels-attrs/internal/geology"
	"github.com/galib9690/camels-attrs/internal/geology/glim"
	"github.com/galib9690/camels-attrs/internal/hydrology"
	"github.com/galib9690/camels-attrs/internal/hydrology/nwis"
	"github.com/galib9690/camels-attrs/internal/soil"
	"github.com/galib9690/camels-attrs/internal/soil/natsgo"
	"github.com/galib9690/camels-attrs/internal/soil/polaris"
	"github.com/galib9690/camels-attrs/internal/topography"
	"github.com/galib9690/camels-attrs/internal/topography/tdep"
	"github.com/galib9690/camels-attrs/internal/vegetation"
	"github.com/galib9690/camels-attrs/internal/vegetation/modis"
	"github.com/galib9690/camels-attrs/internal/vegetation/nlcd"
	"github.com/galib9690/camels-attrs/internal/watershed"
	"github.com/galib9690/camels-attrs/internal/watershed/nldi"
	"github.com/galib9690/camels-attrs/internal/watershed/nwissite"
)

// StackConfig holds configuration for the production provider stack.
type StackConfig struct {
	// Logger for all services and extractors.
	Logger zerolog.Logger

	// GeologyProbeTimeout bounds the one-time lithology availability
	// check (default: 10s).
	GeologyProbeTimeout time.Duration
}

// Stack is the production wiring: the delineation service plus one
// extractor per domain, all backed by the real data services.
type Stack struct {
	Delineator *watershed.Service
	Extractors []DomainExtractor
}

// NewStack wires the real providers. The geology source is availability-
// probed once here; an unreachable lithology service installs a
// default-returning extractor that reports every run as skipped.
func NewStack(ctx context.Context, cfg StackConfig) *Stack {
	logger := cfg.Logger

	delineator := watershed.NewService(watershed.ServiceConfig{
		Basins: nldi.NewClient(nldi.ClientConfig{}),
		Sites:  nwissite.NewClient(nwissite.ClientConfig{}),
		Logger: logger,
	})

	// GridMET backs both the climate extractor and the hydrology
	// runoff-ratio coupling.
	gridmetClient := gridmet.NewClient(gridmet.ClientConfig{})

	extractors := []DomainExtractor{
		topography.New(topography.Config{
			Source: tdep.NewClient(tdep.ClientConfig{}),
			Logger: logger,
		}),
		climate.New(climate.Config{
			Source: gridmetClient,
			Logger: logger,
		}),
		soil.New(soil.Config{
			Survey:  natsgo.NewClient(natsgo.ClientConfig{}),
			Polaris: polaris.NewClient(polaris.ClientConfig{}),
			Logger:  logger,
		}),
		vegetation.New(vegetation.Config{
			Indexes: modis.NewClient(modis.ClientConfig{}),
			Cover:   nlcd.NewClient(nlcd.ClientConfig{}),
			Logger:  logger,
		}),
		newGeologyExtractor(ctx, cfg, logger),
		hydrology.New(hydrology.Config{
			Discharge: nwis.NewClient(nwis.ClientConfig{}),
			Precip:    gridmetClient,
			Logger:    logger,
		}),
	}

	return &Stack{
		Delineator: delineator,
		Extractors: extractors,
	}
}

func newGeologyExtractor(ctx context.Context, cfg StackConfig, logger zerolog.Logger) DomainExtractor {
	probeTimeout := cfg.GeologyProbeTimeout
	if probeTimeout == 0 {
		probeTimeout = 10 * time.Second
	}

	glimClient := glim.NewClient(glim.ClientConfig{})
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if !glimClient.Available(probeCtx) {
		logger.Warn().Msg("lithology service unavailable, geology domain will be skipped")
		return geology.NewSkipped("lithology service unavailable")
	}
	return geology.New(geology.Config{Source: glimClient, Logger: logger})
}

// NewOrchestrator creates an orchestrator for one gauge on this stack.
func (s *Stack) NewOrchestrator(gaugeID string, climatePeriod, hydroPeriod attrs.Period, logger zerolog.Logger, concurrency int) (*Orchestrator, error) {
	return New(Config{
		GaugeID:       gaugeID,
		ClimatePeriod: climatePeriod,
		HydroPeriod:   hydroPeriod,
		Delineator:    s.Delineator,
		Extractors:    s.Extractors,
		Logger:        logger,
		Concurrency:   concurrency,
	})
}
