package soil

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// PropertiesSource provides basin-mean survey properties (gNATSGO).
type PropertiesSource interface {
	Properties(ctx context.Context, b *watershed.Boundary) (*Properties, error)
}

// TextureSource provides basin-mean texture and conductivity (POLARIS).
type TextureSource interface {
	Texture(ctx context.Context, b *watershed.Boundary) (*Texture, error)
}

// Config holds configuration for the soil extractor.
type Config struct {
	// Survey is the gNATSGO properties provider.
	Survey PropertiesSource

	// Polaris is the POLARIS texture provider.
	Polaris TextureSource

	// Logger for extraction operations.
	Logger zerolog.Logger
}

// Extractor combines survey properties and texture layers into the soil
// attribute set. The two sources fail independently: losing one degrades
// only its share of the keys to defaults.
type Extractor struct {
	survey  PropertiesSource
	polaris TextureSource
	logger  zerolog.Logger
}

// New creates a soil extractor.
func New(cfg Config) *Extractor {
	return &Extractor{
		survey:  cfg.Survey,
		polaris: cfg.Polaris,
		logger:  cfg.Logger,
	}
}

// Domain returns the extraction domain.
func (e *Extractor) Domain() attrs.Domain {
	return attrs.DomainSoil
}

// Extract assembles the soil attribute set. Soil depth is a fixed survey
// typical (1 m); max water content derives from whatever AWC value ended up
// in the set, so it stays consistent under partial fallback.
func (e *Extractor) Extract(ctx context.Context, b *watershed.Boundary, _ attrs.Period) (*attrs.Set, attrs.Status) {
	var failures []string

	porosity, awc, fieldCap := DefaultPorosity, DefaultAWC, DefaultFieldCapacity
	if props, err := e.survey.Properties(ctx, b); err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("gNATSGO properties degraded to defaults")
		failures = append(failures, "gnatsgo: "+err.Error())
	} else {
		porosity, awc, fieldCap = props.Porosity, props.AWC, props.FieldCapacity
	}

	sand, silt, clay, conductivity := DefaultSandFrac, DefaultSiltFrac, DefaultClayFrac, DefaultConductivity
	if tex, err := e.polaris.Texture(ctx, b); err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("POLARIS texture degraded to defaults")
		failures = append(failures, "polaris: "+err.Error())
	} else {
		sand, silt, clay = tex.SandFrac, tex.SiltFrac, tex.ClayFrac
		if tex.KsatCmHr > 0 {
			// Ksat cm/hr to log10(mm/hr).
			conductivity = math.Log10(tex.KsatCmHr * 10)
		} else {
			// log10 of a non-positive ksat is not a representable number.
			e.logger.Warn().Float64("ksat_cm_hr", tex.KsatCmHr).Str("gauge_id", b.Site.ID).
				Msg("POLARIS conductivity degraded to default")
			failures = append(failures, "polaris: non-positive ksat")
		}
	}

	set := attrs.NewSet()
	set.PutNumber(KeyPorosity, porosity)
	set.PutNumber(KeyAWCMean, awc)
	set.PutNumber(KeyFieldCapacity, fieldCap)
	set.PutNumber(KeySandFrac, sand)
	set.PutNumber(KeySiltFrac, silt)
	set.PutNumber(KeyClayFrac, clay)
	set.PutNumber(KeyConductivity, conductivity)
	set.PutNumber(KeyDepthStatsgo, DefaultDepth)
	set.PutNumber(KeyMaxWaterContent, awc*DefaultDepth*1000)

	if len(failures) > 0 {
		return set, attrs.Degraded(e.Domain(), strings.Join(failures, "; "))
	}
	return set, attrs.OK(e.Domain())
}
