// Package vegetation extracts vegetation attributes for a watershed from
// MODIS LAI/NDVI subsets and NLCD land cover.
package vegetation

import (
	"fmt"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

// Attribute keys produced by this domain, in output order.
const (
	KeyLAIMax           = "lai_max"
	KeyLAIMin           = "lai_min"
	KeyLAIDiff          = "lai_diff"
	KeyGVFMax           = "gvf_max"
	KeyGVFDiff          = "gvf_diff"
	KeyGVFMean          = "gvf_mean"
	KeyFracForest       = "frac_forest"
	KeyFracCropland     = "frac_cropland"
	KeyWaterFrac        = "water_frac"
	KeyDomLandCover     = "dom_land_cover"
	KeyDomLandCoverFrac = "dom_land_cover_frac"
	KeyRootDepth50      = "root_depth_50"
	KeyRootDepth99      = "root_depth_99"
)

// Keys returns the domain's fixed key set in output order.
func Keys() []string {
	return []string{
		KeyLAIMax, KeyLAIMin, KeyLAIDiff,
		KeyGVFMax, KeyGVFDiff, KeyGVFMean,
		KeyFracForest, KeyFracCropland, KeyWaterFrac,
		KeyDomLandCover, KeyDomLandCoverFrac,
		KeyRootDepth50, KeyRootDepth99,
	}
}

// Documented fallback values per sub-source.
const (
	DefaultLAIMax  = 3.0
	DefaultLAIMin  = 1.0
	DefaultGVFMax  = 0.7
	DefaultGVFDiff = 0.5
	DefaultGVFMean = 0.45

	DefaultFracForest   = 0.5
	DefaultFracCropland = 0.1
	DefaultWaterFrac    = 0.05
	DefaultDomCover     = "Forest"
	DefaultDomCoverFrac = 0.5
)

// Defaults returns the documented fallback set used when every vegetation
// source is unreachable.
func Defaults() *attrs.Set {
	s := attrs.NewSet()
	s.PutNumber(KeyLAIMax, DefaultLAIMax)
	s.PutNumber(KeyLAIMin, DefaultLAIMin)
	s.PutNumber(KeyLAIDiff, DefaultLAIMax-DefaultLAIMin)
	s.PutNumber(KeyGVFMax, DefaultGVFMax)
	s.PutNumber(KeyGVFDiff, DefaultGVFDiff)
	s.PutNumber(KeyGVFMean, DefaultGVFMean)
	s.PutNumber(KeyFracForest, DefaultFracForest)
	s.PutNumber(KeyFracCropland, DefaultFracCropland)
	s.PutNumber(KeyWaterFrac, DefaultWaterFrac)
	s.PutText(KeyDomLandCover, DefaultDomCover)
	s.PutNumber(KeyDomLandCoverFrac, DefaultDomCoverFrac)
	d50, d99 := RootDepths(DefaultDomCover)
	s.PutNumber(KeyRootDepth50, d50)
	s.PutNumber(KeyRootDepth99, d99)
	return s
}

// NLCD class codes grouped into the fractions this domain reports.
const (
	nlcdWater       = 11
	nlcdForestLow   = 41
	nlcdForestHigh  = 43
	nlcdCroplandLow = 81
	nlcdCropHigh    = 82
)

// coverNames maps NLCD class codes to the cover names used for dominant
// land cover and root depth lookup.
var coverNames = map[int]string{
	11: "Water",
	41: "Forest", 42: "Forest", 43: "Forest",
	52: "Shrubland",
	71: "Grassland",
	81: "Cropland", 82: "Cropland",
	90: "Wetland",
}

// CoverName returns the descriptive name for an NLCD class code.
func CoverName(code int) string {
	if name, ok := coverNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Class%d", code)
}

// rootDepthLookup maps dominant cover to (50th, 99th) percentile rooting
// depth in meters.
var rootDepthLookup = map[string][2]float64{
	"Forest":    {0.7, 2.0},
	"Cropland":  {0.3, 0.8},
	"Grassland": {0.3, 1.0},
	"Shrubland": {0.4, 1.2},
	"Wetland":   {0.2, 0.5},
	"Water":     {0.0, 0.0},
}

// RootDepths estimates rooting depth percentiles from the dominant land
// cover name.
func RootDepths(cover string) (d50, d99 float64) {
	if d, ok := rootDepthLookup[cover]; ok {
		return d[0], d[1]
	}
	return 0.4, 1.0
}
