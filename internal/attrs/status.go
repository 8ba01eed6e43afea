package attrs

// State describes how a domain extraction concluded.
type State string

const (
	// StateOK means the domain extracted live data.
	StateOK State = "ok"

	// StateDegraded means the data source failed and documented defaults
	// were substituted for the domain's full key set.
	StateDegraded State = "degraded"

	// StateSkipped means an optional data source is unavailable and the
	// domain returned defaults without attempting extraction.
	StateSkipped State = "skipped"

	// StateFailed means the gauge's run never reached this domain
	// (fatal delineation failure).
	StateFailed State = "failed"
)

// Status records the outcome of one domain's extraction within a run.
type Status struct {
	Domain Domain `json:"domain"`
	State  State  `json:"state"`
	Reason string `json:"reason,omitempty"`
}

// OK creates a successful status.
func OK(d Domain) Status {
	return Status{Domain: d, State: StateOK}
}

// Degraded creates a degraded status with the failure reason.
func Degraded(d Domain, reason string) Status {
	return Status{Domain: d, State: StateDegraded, Reason: reason}
}

// Skipped creates a skipped status for an unavailable optional source.
func Skipped(d Domain, reason string) Status {
	return Status{Domain: d, State: StateSkipped, Reason: reason}
}

// Failed creates a failed status.
func Failed(d Domain, reason string) Status {
	return Status{Domain: d, State: StateFailed, Reason: reason}
}

// UsedDefaults reports whether the domain's output came from documented
// defaults rather than live data.
func (s Status) UsedDefaults() bool {
	return s.State != StateOK
}
