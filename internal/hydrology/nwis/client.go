// Package nwis provides a client for USGS NWIS daily streamflow values.
package nwis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/hydrology"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the NWIS daily values service.
	DefaultBaseURL = "https://waterservices.usgs.gov/nwis/dv/"

	// ProviderName identifies this provider.
	ProviderName = "nwis"

	// Parameter 00060 is discharge in ft³/s; statistic 00003 the daily
	// mean.
	dischargeParameter = "00060"
	dailyMeanStatistic = "00003"
)

// ClientConfig holds configuration for the NWIS client.
type ClientConfig struct {
	// BaseURL is the service URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 60s; multi-decade daily
	// records are large).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches daily mean discharge records.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new NWIS client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// dvResponse mirrors the WaterML-JSON envelope of the daily values
// service.
type dvResponse struct {
	Value struct {
		TimeSeries []struct {
			Values []struct {
				Value []struct {
					Value    string `json:"value"`
					DateTime string `json:"dateTime"`
				} `json:"value"`
			} `json:"values"`
		} `json:"timeSeries"`
	} `json:"value"`
}

// DailyDischarge returns the gauge's daily mean discharge records for the
// period, in chronological order. Missing-value sentinels are dropped.
func (c *Client) DailyDischarge(ctx context.Context, gaugeID string, period attrs.Period) ([]hydrology.Record, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("sites", gaugeID)
	q.Set("startDT", period.Start.Format("2006-01-02"))
	q.Set("endDT", period.End.Format("2006-01-02"))
	q.Set("parameterCd", dischargeParameter)
	q.Set("statCd", dailyMeanStatistic)

	reqURL := fmt.Sprintf("%s/?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch daily values: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: gauge %s", hydrology.ErrNoRecords, gaugeID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from daily values service", resp.StatusCode)
	}

	var result dvResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode daily values: %w", err)
	}

	var records []hydrology.Record
	for _, ts := range result.Value.TimeSeries {
		for _, vs := range ts.Values {
			for _, v := range vs.Value {
				cfs, err := strconv.ParseFloat(v.Value, 64)
				if err != nil {
					return nil, fmt.Errorf("parse discharge value %q: %w", v.Value, err)
				}
				// -999999 marks missing or provisional-removed days.
				if cfs <= -999999 {
					continue
				}
				date, err := parseNWISTime(v.DateTime)
				if err != nil {
					return nil, err
				}
				records = append(records, hydrology.Record{Date: date, CFS: cfs})
			}
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: gauge %s, %s..%s", hydrology.ErrNoRecords, gaugeID,
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}

// parseNWISTime accepts the service's local-midnight timestamps with or
// without a zone suffix.
func parseNWISTime(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05.000-07:00", "2006-01-02T15:04:05.000", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse discharge timestamp %q", raw)
}
