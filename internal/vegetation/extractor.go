package vegetation

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

// ErrNoSamples is returned internally when a sample set is empty after
// filtering out-of-range values.
var ErrNoSamples = errors.New("no valid vegetation samples")

// IndexSource provides raw MODIS index samples over the basin. LAI values
// carry the product's 0.1 scale factor; NDVI values the 1e4 factor.
type IndexSource interface {
	SampleLAI(ctx context.Context, b *watershed.Boundary) ([]float64, error)
	SampleNDVI(ctx context.Context, b *watershed.Boundary) ([]float64, error)
}

// CoverSource provides NLCD class counts over the basin.
type CoverSource interface {
	LandCover(ctx context.Context, b *watershed.Boundary) (map[int]int, error)
}

// Config holds configuration for the vegetation extractor.
type Config struct {
	// Indexes is the MODIS LAI/NDVI provider.
	Indexes IndexSource

	// Cover is the NLCD land cover provider.
	Cover CoverSource

	// Logger for extraction operations.
	Logger zerolog.Logger
}

// Extractor combines MODIS vegetation indexes with NLCD land cover. The
// three sub-sources (LAI, NDVI, land cover) fail independently.
type Extractor struct {
	indexes IndexSource
	cover   CoverSource
	logger  zerolog.Logger
}

// New creates a vegetation extractor.
func New(cfg Config) *Extractor {
	return &Extractor{
		indexes: cfg.Indexes,
		cover:   cfg.Cover,
		logger:  cfg.Logger,
	}
}

// Domain returns the extraction domain.
func (e *Extractor) Domain() attrs.Domain {
	return attrs.DomainVegetation
}

// Extract assembles the vegetation attribute set. Root depths always follow
// whatever dominant cover ended up in the set, fetched or fallback.
func (e *Extractor) Extract(ctx context.Context, b *watershed.Boundary, _ attrs.Period) (*attrs.Set, attrs.Status) {
	var failures []string

	laiMax, laiMin := DefaultLAIMax, DefaultLAIMin
	if raw, err := e.indexes.SampleLAI(ctx, b); err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("MODIS LAI degraded to defaults")
		failures = append(failures, "lai: "+err.Error())
	} else if mx, mn, err := laiStats(raw); err != nil {
		failures = append(failures, "lai: "+err.Error())
	} else {
		laiMax, laiMin = mx, mn
	}

	gvfMax, gvfDiff, gvfMean := DefaultGVFMax, DefaultGVFDiff, DefaultGVFMean
	if raw, err := e.indexes.SampleNDVI(ctx, b); err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("MODIS NDVI degraded to defaults")
		failures = append(failures, "ndvi: "+err.Error())
	} else if mx, diff, mean, err := gvfStats(raw); err != nil {
		failures = append(failures, "ndvi: "+err.Error())
	} else {
		gvfMax, gvfDiff, gvfMean = mx, diff, mean
	}

	fracForest, fracCrop, fracWater := DefaultFracForest, DefaultFracCropland, DefaultWaterFrac
	domCover, domFrac := DefaultDomCover, DefaultDomCoverFrac
	if counts, err := e.cover.LandCover(ctx, b); err != nil {
		e.logger.Warn().Err(err).Str("gauge_id", b.Site.ID).Msg("NLCD land cover degraded to defaults")
		failures = append(failures, "nlcd: "+err.Error())
	} else if summary, err := coverStats(counts); err != nil {
		failures = append(failures, "nlcd: "+err.Error())
	} else {
		fracForest, fracCrop, fracWater = summary.forest, summary.cropland, summary.water
		domCover, domFrac = summary.domName, summary.domFrac
	}

	d50, d99 := RootDepths(domCover)

	set := attrs.NewSet()
	set.PutNumber(KeyLAIMax, laiMax)
	set.PutNumber(KeyLAIMin, laiMin)
	set.PutNumber(KeyLAIDiff, laiMax-laiMin)
	set.PutNumber(KeyGVFMax, gvfMax)
	set.PutNumber(KeyGVFDiff, gvfDiff)
	set.PutNumber(KeyGVFMean, gvfMean)
	set.PutNumber(KeyFracForest, fracForest)
	set.PutNumber(KeyFracCropland, fracCrop)
	set.PutNumber(KeyWaterFrac, fracWater)
	set.PutText(KeyDomLandCover, domCover)
	set.PutNumber(KeyDomLandCoverFrac, domFrac)
	set.PutNumber(KeyRootDepth50, d50)
	set.PutNumber(KeyRootDepth99, d99)

	if len(failures) > 0 {
		return set, attrs.Degraded(e.Domain(), strings.Join(failures, "; "))
	}
	return set, attrs.OK(e.Domain())
}

// laiStats applies the MODIS 0.1 scale factor, drops fill values above the
// valid range, and reduces to max/min.
func laiStats(raw []float64) (max, min float64, err error) {
	first := true
	for _, v := range raw {
		lai := v * 0.1
		if lai > 10 {
			continue
		}
		if first {
			max, min = lai, lai
			first = false
			continue
		}
		if lai > max {
			max = lai
		}
		if lai < min {
			min = lai
		}
	}
	if first {
		return 0, 0, ErrNoSamples
	}
	return max, min, nil
}

// gvfStats applies the NDVI 1e4 scale factor, drops values outside [-1, 1],
// and reduces to max/diff/mean.
func gvfStats(raw []float64) (max, diff, mean float64, err error) {
	var sum, min float64
	count := 0
	for _, v := range raw {
		gvf := v / 10000.0
		if gvf < -1 || gvf > 1 {
			continue
		}
		if count == 0 {
			max, min = gvf, gvf
		} else {
			if gvf > max {
				max = gvf
			}
			if gvf < min {
				min = gvf
			}
		}
		sum += gvf
		count++
	}
	if count == 0 {
		return 0, 0, 0, ErrNoSamples
	}
	return max, max - min, sum / float64(count), nil
}

type coverSummary struct {
	forest   float64
	cropland float64
	water    float64
	domName  string
	domFrac  float64
}

func coverStats(counts map[int]int) (coverSummary, error) {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return coverSummary{}, ErrNoSamples
	}

	var s coverSummary
	domCode, domCount := 0, -1
	for code, n := range counts {
		switch {
		case code >= nlcdForestLow && code <= nlcdForestHigh:
			s.forest += float64(n)
		case code >= nlcdCroplandLow && code <= nlcdCropHigh:
			s.cropland += float64(n)
		case code == nlcdWater:
			s.water += float64(n)
		}
		// Ties break toward the lower class code so results are stable.
		if n > domCount || (n == domCount && code < domCode) {
			domCode, domCount = code, n
		}
	}

	s.forest /= float64(total)
	s.cropland /= float64(total)
	s.water /= float64(total)
	s.domName = CoverName(domCode)
	s.domFrac = float64(domCount) / float64(total)
	return s, nil
}
