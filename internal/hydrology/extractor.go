package hydrology

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// DischargeSource provides daily mean discharge records (NWIS).
type DischargeSource interface {
	DailyDischarge(ctx context.Context, gaugeID string, period attrs.Period) ([]Record, error)
}

// PrecipSource provides mean daily precipitation at a point, mm/day. It is
// optional wiring: without it runoff_ratio keeps its documented default.
type PrecipSource interface {
	MeanDailyPrecip(ctx context.Context, pt geo.Point, period attrs.Period) (float64, error)
}

// Config holds configuration for the hydrology extractor.
type Config struct {
	// Discharge is the daily values provider.
	Discharge DischargeSource

	// Precip optionally supplies basin precipitation for runoff_ratio.
	Precip PrecipSource

	// Logger for extraction operations.
	Logger zerolog.Logger
}

// Extractor computes streamflow signatures from the gauge's daily
// discharge record.
type Extractor struct {
	discharge DischargeSource
	precip    PrecipSource
	logger    zerolog.Logger
}

// New creates a hydrology extractor.
func New(cfg Config) *Extractor {
	return &Extractor{
		discharge: cfg.Discharge,
		precip:    cfg.Precip,
		logger:    cfg.Logger,
	}
}

// Domain returns the extraction domain.
func (e *Extractor) Domain() attrs.Domain {
	return attrs.DomainHydrology
}

// Extract fetches the discharge record, converts it to basin depth and
// reduces it to the signature set. Losing only the precipitation source
// degrades just runoff_ratio; losing discharge degrades the whole domain.
func (e *Extractor) Extract(ctx context.Context, b *watershed.Boundary, period attrs.Period) (*attrs.Set, attrs.Status) {
	period = period.OrDefault()

	records, err := e.discharge.DailyDischarge(ctx, b.Site.ID, period)
	if err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("hydrology extraction degraded to defaults")
		return Defaults(), attrs.Degraded(e.Domain(), err.Error())
	}
	if len(records) == 0 {
		e.logger.Warn().Str("gauge_id", b.Site.ID).Msg("hydrology extraction degraded: empty discharge record")
		return Defaults(), attrs.Degraded(e.Domain(), fmt.Sprintf("no discharge records for gauge %s", b.Site.ID))
	}
	if b.AreaKm2 <= 0 {
		e.logger.Warn().Str("gauge_id", b.Site.ID).Msg("hydrology extraction degraded: basin area unknown")
		return Defaults(), attrs.Degraded(e.Domain(), fmt.Sprintf("basin area unknown for gauge %s", b.Site.ID))
	}

	dates := make([]time.Time, len(records))
	flows := make([]float64, len(records))
	for i, r := range records {
		dates[i] = r.Date
		flows[i] = cfsToMMDay(r.CFS, b.AreaKm2)
	}
	sigs := signatures(dates, flows)

	runoffRatio := DefaultRunoffRatio
	var precipErr error
	if e.precip != nil {
		pMean, err := e.precip.MeanDailyPrecip(ctx, b.Centroid, period)
		if err != nil {
			e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("runoff ratio degraded to default")
			precipErr = err
		} else if pMean > 0 {
			runoffRatio = sigs[KeyQMean] / pMean
		}
	}

	set := attrs.NewSet()
	for _, key := range Keys() {
		if key == KeyRunoffRatio {
			set.PutNumber(key, runoffRatio)
			continue
		}
		set.PutNumber(key, sigs[key])
	}

	if precipErr != nil {
		return set, attrs.Degraded(e.Domain(), "runoff_ratio: "+precipErr.Error())
	}
	return set, attrs.OK(e.Domain())
}
