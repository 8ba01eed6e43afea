package models

import (
	"time"

	"github.com/galib9690/camels-attrs/internal/attrs"
)

const dateLayout = "2006-01-02"

// ExtractionRequest asks for a full attribute extraction of one gauge.
// Periods are optional; omitted periods fall back to the documented
// defaults for climate and hydrology.
type ExtractionRequest struct {
	GaugeID      string `json:"gaugeId"`
	ClimateStart string `json:"climateStart,omitempty"`
	ClimateEnd   string `json:"climateEnd,omitempty"`
	HydroStart   string `json:"hydroStart,omitempty"`
	HydroEnd     string `json:"hydroEnd,omitempty"`
}

// Validate checks the request and returns field errors for anything
// malformed. Both ends of a period must be supplied together.
func (r *ExtractionRequest) Validate() []FieldError {
	var errs []FieldError
	if r.GaugeID == "" {
		errs = append(errs, FieldError{Field: "gaugeId", Message: "gauge ID is required", Code: "required"})
	}
	errs = append(errs, validatePeriod("climate", r.ClimateStart, r.ClimateEnd)...)
	errs = append(errs, validatePeriod("hydro", r.HydroStart, r.HydroEnd)...)
	return errs
}

// ClimatePeriod parses the climate period. Call Validate first.
func (r *ExtractionRequest) ClimatePeriod() (attrs.Period, error) {
	return parsePeriod(r.ClimateStart, r.ClimateEnd)
}

// HydroPeriod parses the hydrology period. Call Validate first.
func (r *ExtractionRequest) HydroPeriod() (attrs.Period, error) {
	return parsePeriod(r.HydroStart, r.HydroEnd)
}

func parsePeriod(start, end string) (attrs.Period, error) {
	if start == "" && end == "" {
		return attrs.Period{}, nil
	}
	return attrs.ParsePeriod(start, end)
}

func validatePeriod(prefix, start, end string) []FieldError {
	var errs []FieldError
	if (start == "") != (end == "") {
		errs = append(errs, FieldError{
			Field:   prefix + "Start",
			Message: "start and end must be supplied together",
			Code:    "incomplete_period",
		})
		return errs
	}
	if start == "" {
		return nil
	}

	startT, err := time.Parse(dateLayout, start)
	if err != nil {
		errs = append(errs, FieldError{Field: prefix + "Start", Message: "must be a YYYY-MM-DD date", Code: "invalid_date"})
	}
	endT, err := time.Parse(dateLayout, end)
	if err != nil {
		errs = append(errs, FieldError{Field: prefix + "End", Message: "must be a YYYY-MM-DD date", Code: "invalid_date"})
	}
	if len(errs) == 0 && !endT.After(startT) {
		errs = append(errs, FieldError{Field: prefix + "End", Message: "must be after the start date", Code: "invalid_range"})
	}
	return errs
}

// DomainStatus reports one domain's outcome within an extraction.
type DomainStatus struct {
	Domain string `json:"domain"`
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// ExtractionResponse is a completed extraction run.
type ExtractionResponse struct {
	ID         string                 `json:"id"`
	RunID      string                 `json:"runId"`
	GaugeID    string                 `json:"gaugeId"`
	GaugeName  string                 `json:"gaugeName"`
	Lat        float64                `json:"gaugeLat"`
	Lon        float64                `json:"gaugeLon"`
	HUC02      string                 `json:"huc02"`
	Status     string                 `json:"status"`
	Attributes map[string]attrs.Value `json:"attributes"`
	Statuses   []DomainStatus         `json:"domainStatuses"`
	CreatedAt  Timestamp              `json:"createdAt"`
}

// ExtractionHistoryResponse is a gauge's extraction history, newest first.
type ExtractionHistoryResponse struct {
	GaugeID string               `json:"gaugeId"`
	Runs    []ExtractionResponse `json:"runs"`
}
