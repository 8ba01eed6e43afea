// Package gridmet provides a client for GridMET daily surface meteorology,
// served through the Northwest Knowledge Network THREDDS point-subset
// service.
package gridmet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/attrs"
	"github.com/galib9690/camels-attrs/internal/climate"
	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the THREDDS NetCDF Subset Service root for the
	// GridMET aggregations.
	DefaultBaseURL = "https://thredds.northwestknowledge.net:8080/thredds/ncss"

	// ProviderName identifies this provider.
	ProviderName = "gridmet"
)

// GridMET aggregation datasets and their CSV variable names.
var variables = []struct {
	dataset string
	name    string
}{
	{"agg_met_pr_1979_CurrentYear_CONUS.nc", "precipitation_amount"},
	{"agg_met_tmmn_1979_CurrentYear_CONUS.nc", "daily_minimum_temperature"},
	{"agg_met_tmmx_1979_CurrentYear_CONUS.nc", "daily_maximum_temperature"},
	{"agg_met_pet_1979_CurrentYear_CONUS.nc", "daily_mean_reference_evapotranspiration_grass"},
}

// ClientConfig holds configuration for the GridMET client.
type ClientConfig struct {
	// BaseURL is the THREDDS NCSS root (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 60s; the subset service
	// materializes multi-decade series on demand).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches daily GridMET series at a point.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new GridMET client.
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

// FetchDaily retrieves precipitation, min/max temperature and reference ET
// for the given point and period, aligned on the dates present in all four
// series. Temperatures are converted from Kelvin to °C.
func (c *Client) FetchDaily(ctx context.Context, pt geo.Point, period attrs.Period) (*climate.Daily, error) {
	series := make([]map[time.Time]float64, len(variables))
	for i, v := range variables {
		s, err := c.fetchSeries(ctx, v.dataset, v.name, pt, period)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", v.name, err)
		}
		series[i] = s
	}

	// Align on dates common to all variables.
	dates := make([]time.Time, 0, len(series[0]))
	for d := range series[0] {
		shared := true
		for _, s := range series[1:] {
			if _, ok := s[d]; !ok {
				shared = false
				break
			}
		}
		if shared {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	daily := &climate.Daily{
		Dates:   dates,
		Precip:  make([]float64, len(dates)),
		TempMin: make([]float64, len(dates)),
		TempMax: make([]float64, len(dates)),
		PET:     make([]float64, len(dates)),
	}
	for i, d := range dates {
		daily.Precip[i] = series[0][d]
		daily.TempMin[i] = series[1][d] - 273.15
		daily.TempMax[i] = series[2][d] - 273.15
		daily.PET[i] = series[3][d]
	}
	return daily, nil
}

// MeanDailyPrecip returns the mean daily precipitation (mm/day) at the
// point over the period. Used to relate streamflow volume to precipitation
// input without re-deriving the full index set.
func (c *Client) MeanDailyPrecip(ctx context.Context, pt geo.Point, period attrs.Period) (float64, error) {
	s, err := c.fetchSeries(ctx, variables[0].dataset, variables[0].name, pt, period)
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", variables[0].name, err)
	}
	if len(s) == 0 {
		return 0, fmt.Errorf("no precipitation records for %s..%s",
			period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	}
	var sum float64
	for _, v := range s {
		sum += v
	}
	return sum / float64(len(s)), nil
}

func (c *Client) fetchSeries(ctx context.Context, dataset, varName string, pt geo.Point, period attrs.Period) (map[time.Time]float64, error) {
	q := url.Values{}
	q.Set("var", varName)
	q.Set("latitude", strconv.FormatFloat(pt.Lat, 'f', 5, 64))
	q.Set("longitude", strconv.FormatFloat(pt.Lon, 'f', 5, 64))
	q.Set("time_start", period.Start.Format("2006-01-02")+"T00:00:00Z")
	q.Set("time_end", period.End.Format("2006-01-02")+"T00:00:00Z")
	q.Set("accept", "csv")

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, dataset, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from climate service", resp.StatusCode)
	}

	return parsePointCSV(resp.Body)
}

// parsePointCSV reads an NCSS point-subset CSV: a header row followed by
// one row per timestep with the time in the first column and the variable
// value in the last.
func parsePointCSV(r io.Reader) (map[time.Time]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("malformed csv header: %d columns", len(header))
	}

	out := make(map[time.Time]float64)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		ts, err := time.Parse(time.RFC3339, record[0])
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", record[0], err)
		}
		raw := strings.TrimSpace(record[len(record)-1])
		if raw == "" || raw == "NaN" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", raw, err)
		}
		// Normalize to UTC midnight so series align across datasets.
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		out[day] = v
	}
	return out, nil
}
