package attrs

import (
	"fmt"
	"time"
)

// Default date range for climate and hydrology extraction.
const (
	DefaultPeriodStart = "2000-01-01"
	DefaultPeriodEnd   = "2020-12-31"
)

// Period is an inclusive UTC date range. Climate and hydrology extraction
// are bounded by a period; the other domains ignore it.
type Period struct {
	Start time.Time
	End   time.Time
}

// DefaultPeriod returns the default 2000-01-01..2020-12-31 range.
func DefaultPeriod() Period {
	p, _ := ParsePeriod(DefaultPeriodStart, DefaultPeriodEnd)
	return p
}

// ParsePeriod parses two ISO dates into a Period.
func ParsePeriod(start, end string) (Period, error) {
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return Period{}, fmt.Errorf("parse period start: %w", err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return Period{}, fmt.Errorf("parse period end: %w", err)
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("period end %s before start %s", end, start)
	}
	return Period{Start: s, End: e}, nil
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Start.IsZero() && p.End.IsZero()
}

// OrDefault returns p, or the default period when p is unset.
func (p Period) OrDefault() Period {
	if p.IsZero() {
		return DefaultPeriod()
	}
	return p
}

// Days returns the number of days in the inclusive range.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Years returns the range length in (fractional) years.
func (p Period) Years() float64 {
	return float64(p.Days()) / 365.25
}

func (p Period) String() string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}
