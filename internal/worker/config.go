// Package worker provides background job processing for attribute
// extraction.
package worker

import "time"

// JobConfig holds configuration for the extraction job.
type JobConfig struct {
	// Concurrency is the number of gauges extracted at once.
	// Default: 2. Each gauge already fans out to the upstream data
	// services internally, so this stays low.
	Concurrency int

	// GaugeTimeout bounds a single gauge's extraction.
	// Default: 5 minutes.
	GaugeTimeout time.Duration
}

// DefaultJobConfig returns the default extraction job configuration.
func DefaultJobConfig() JobConfig {
	return JobConfig{
		Concurrency:  2,
		GaugeTimeout: 5 * time.Minute,
	}
}

func (c JobConfig) withDefaults() JobConfig {
	if c.Concurrency <= 0 {
		c.Concurrency = 2
	}
	if c.GaugeTimeout <= 0 {
		c.GaugeTimeout = 5 * time.Minute
	}
	return c
}
