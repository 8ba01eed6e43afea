// Package soil extracts soil attributes for a watershed from the gNATSGO
// survey (via USDA Soil Data Access) and the POLARIS probabilistic soil
// property layers.
package soil

import "github.com/galib9690/camels-attrs/internal/attrs"

// Attribute keys produced by this domain, in output order.
const (
	KeyPorosity        = "soil_porosity"
	KeyAWCMean         = "awc_mean"
	KeyFieldCapacity   = "field_capacity"
	KeySandFrac        = "sand_frac"
	KeySiltFrac        = "silt_frac"
	KeyClayFrac        = "clay_frac"
	KeyConductivity    = "soil_conductivity"
	KeyDepthStatsgo    = "soil_depth_statsgo"
	KeyMaxWaterContent = "max_water_content"
)

// Keys returns the domain's fixed key set in output order.
func Keys() []string {
	return []string{
		KeyPorosity, KeyAWCMean, KeyFieldCapacity,
		KeySandFrac, KeySiltFrac, KeyClayFrac,
		KeyConductivity, KeyDepthStatsgo, KeyMaxWaterContent,
	}
}

// Documented fallback values. Porosity/AWC/field capacity are volumetric
// fractions, texture fractions are percentages, conductivity is
// log10(mm/hr), depth is meters and max water content is mm.
const (
	DefaultPorosity      = 0.4
	DefaultAWC           = 0.15
	DefaultFieldCapacity = 0.25
	DefaultSandFrac      = 35.0
	DefaultSiltFrac      = 40.0
	DefaultClayFrac      = 25.0
	DefaultConductivity  = 0.5
	DefaultDepth         = 1.0
)

// Defaults returns the documented fallback set used when both soil sources
// are unreachable.
func Defaults() *attrs.Set {
	s := attrs.NewSet()
	s.PutNumber(KeyPorosity, DefaultPorosity)
	s.PutNumber(KeyAWCMean, DefaultAWC)
	s.PutNumber(KeyFieldCapacity, DefaultFieldCapacity)
	s.PutNumber(KeySandFrac, DefaultSandFrac)
	s.PutNumber(KeySiltFrac, DefaultSiltFrac)
	s.PutNumber(KeyClayFrac, DefaultClayFrac)
	s.PutNumber(KeyConductivity, DefaultConductivity)
	s.PutNumber(KeyDepthStatsgo, DefaultDepth)
	s.PutNumber(KeyMaxWaterContent, DefaultAWC*DefaultDepth*1000)
	return s
}

// Properties holds basin-mean gNATSGO survey properties, volumetric
// fractions.
type Properties struct {
	Porosity      float64
	AWC           float64
	FieldCapacity float64
}

// Texture holds basin-mean POLARIS texture and conductivity, averaged over
// the sampled depth layers. Texture fractions are percentages, Ksat is
// cm/hr.
type Texture struct {
	SandFrac float64
	SiltFrac float64
	ClayFrac float64
	KsatCmHr float64
}
