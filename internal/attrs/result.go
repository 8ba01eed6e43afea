package attrs

import "time"

// GaugeInfo holds per-gauge metadata resolved during delineation.
type GaugeInfo struct {
	ID    string  `json:"gauge_id"`
	Name  string  `json:"gauge_name"`
	Lat   float64 `json:"gauge_lat"`
	Lon   float64 `json:"gauge_lon"`
	HUC02 string  `json:"huc_02"`
}

// Result is the aggregate outcome of one extraction run: gauge metadata,
// the merged attribute set, and a status per domain. A Result is populated
// incrementally by the orchestrator and must be treated as immutable once
// returned to the caller.
type Result struct {
	RunID       string
	Gauge       GaugeInfo
	Attributes  *Set
	Statuses    []Status
	StartedAt   time.Time
	CompletedAt time.Time
}

// Status returns the status recorded for a domain.
func (r *Result) Status(d Domain) (Status, bool) {
	for _, s := range r.Statuses {
		if s.Domain == d {
			return s, true
		}
	}
	return Status{}, false
}

// DegradedDomains lists the domains that fell back to defaults.
func (r *Result) DegradedDomains() []Domain {
	var out []Domain
	for _, s := range r.Statuses {
		if s.UsedDefaults() {
			out = append(out, s.Domain)
		}
	}
	return out
}

// Clone returns a deep copy of the result.
func (r *Result) Clone() *Result {
	out := *r
	if r.Attributes != nil {
		out.Attributes = r.Attributes.Clone()
	}
	out.Statuses = make([]Status, len(r.Statuses))
	copy(out.Statuses, r.Statuses)
	return &out
}
