package extractor

import (
	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/climate"
	"github.com/galib9690/camels-attrs/internal/geology"
	"github.com/galib9690/camels-attrs/internal/hydrology"
	"github.com/galib9690/camels-attrs/internal/soil"
	"github.com/galib9690/camels-attrs/internal/topography"
	"github.com/galib9690/camels-attrs/internal/vegetation"
)

// Gauge metadata columns, leading every output row.
const (
	ColGaugeID   = "gauge_id"
	ColGaugeName = "gauge_name"
	ColGaugeLat  = "gauge_lat"
	ColGaugeLon  = "gauge_lon"
	ColHUC02     = "huc_02"
)

// Run marker columns, trailing every output row.
const (
	ColRunStatus = "run_status"
	ColRunError  = "run_error"
)

// Run status values.
const (
	RunStatusOK       = "ok"
	RunStatusDegraded = "degraded"
	RunStatusFailed   = "failed"
)

// domainKeys returns a domain's documented key list.
func domainKeys(d attrs.Domain) []string {
	switch d {
	case attrs.DomainTopography:
		return topography.Keys()
	case attrs.DomainClimate:
		return climate.Keys()
	case attrs.DomainSoil:
		return soil.Keys()
	case attrs.DomainVegetation:
		return vegetation.Keys()
	case attrs.DomainGeology:
		return geology.Keys()
	case attrs.DomainHydrology:
		return hydrology.Keys()
	}
	return nil
}

// domainDefaults returns a domain's documented default set.
func domainDefaults(d attrs.Domain) *attrs.Set {
	switch d {
	case attrs.DomainTopography:
		return topography.Defaults()
	case attrs.DomainClimate:
		return climate.Defaults()
	case attrs.DomainSoil:
		return soil.Defaults()
	case attrs.DomainVegetation:
		return vegetation.Defaults()
	case attrs.DomainGeology:
		return geology.Defaults()
	case attrs.DomainHydrology:
		return hydrology.Defaults()
	}
	return attrs.NewSet()
}

// Columns returns the fixed output schema: gauge metadata, every domain's
// documented keys in canonical domain order, then the run markers. The
// schema never varies with degradation, which is what makes batch rows
// concatenable.
func Columns() []string {
	cols := []string{ColGaugeID, ColGaugeName, ColGaugeLat, ColGaugeLon, ColHUC02}
	for _, d := range attrs.Domains() {
		cols = append(cols, domainKeys(d)...)
	}
	return append(cols, ColRunStatus, ColRunError)
}

// NewTable creates an empty output table with the fixed schema.
func NewTable() *attrs.Table {
	return attrs.NewTable(Columns())
}

// ResultRow projects a finalized result onto the fixed schema.
func ResultRow(res *attrs.Result) map[string]attrs.Value {
	row := map[string]attrs.Value{
		ColGaugeID:   attrs.Text(res.Gauge.ID),
		ColGaugeName: attrs.Text(res.Gauge.Name),
		ColGaugeLat:  attrs.Number(res.Gauge.Lat),
		ColGaugeLon:  attrs.Number(res.Gauge.Lon),
		ColHUC02:     attrs.Text(res.Gauge.HUC02),
	}
	for _, key := range res.Attributes.Keys() {
		v, _ := res.Attributes.Get(key)
		row[key] = v
	}

	status, reason := RunStatusOK, ""
	for _, s := range res.Statuses {
		if s.UsedDefaults() {
			status = RunStatusDegraded
			if reason != "" {
				reason += "; "
			}
			reason += string(s.Domain) + ": " + s.Reason
		}
	}
	row[ColRunStatus] = attrs.Text(status)
	if reason == "" {
		row[ColRunError] = attrs.Null()
	} else {
		row[ColRunError] = attrs.Text(reason)
	}
	return row
}

// FailedRow builds a full-schema row for a gauge whose delineation failed:
// metadata reduces to the gauge ID, every domain contributes its documented
// defaults, and the run markers carry the error.
func FailedRow(gaugeID string, err error) map[string]attrs.Value {
	row := map[string]attrs.Value{
		ColGaugeID:   attrs.Text(gaugeID),
		ColGaugeName: attrs.Null(),
		ColGaugeLat:  attrs.Null(),
		ColGaugeLon:  attrs.Null(),
		ColHUC02:     attrs.Null(),
	}
	for _, d := range attrs.Domains() {
		defaults := domainDefaults(d)
		for _, key := range defaults.Keys() {
			v, _ := defaults.Get(key)
			row[key] = v
		}
	}
	row[ColRunStatus] = attrs.Text(RunStatusFailed)
	row[ColRunError] = attrs.Text(err.Error())
	return row
}
