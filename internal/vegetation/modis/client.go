// Package modis provides a client for MODIS vegetation product subsets via
// the ORNL DAAC web service.
package modis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the ORNL DAAC MODIS subset service root.
	DefaultBaseURL = "https://modis.ornl.gov/rst/api/v1"

	// ProviderName identifies this provider.
	ProviderName = "modis"

	laiProduct  = "MOD15A2H"
	laiBand     = "Lai_500m"
	ndviProduct = "MOD13Q1"
	ndviBand    = "250m_16_days_NDVI"
)

// ClientConfig holds configuration for the MODIS subset client.
type ClientConfig struct {
	// BaseURL is the subset service root (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 60s).
	Timeout time.Duration

	// Year selects the annual composite window sampled around the basin
	// centroid (default: 2020).
	Year int

	// KmAround is the subset half-width in km in each direction
	// (default: 4).
	KmAround int
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches raw MODIS pixel subsets centered on the basin centroid.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	year       int
	kmAround   int
}

// NewClient creates a new MODIS subset client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	year := cfg.Year
	if year == 0 {
		year = 2020
	}
	kmAround := cfg.KmAround
	if kmAround == 0 {
		kmAround = 4
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
		year:       year,
		kmAround:   kmAround,
	}
}

// SampleLAI returns raw LAI pixel values (product scale factor still
// applied by the caller) for the basin's composite year.
func (c *Client) SampleLAI(ctx context.Context, b *watershed.Boundary) ([]float64, error) {
	return c.subset(ctx, laiProduct, laiBand, b)
}

// SampleNDVI returns raw NDVI pixel values for the basin's composite year.
func (c *Client) SampleNDVI(ctx context.Context, b *watershed.Boundary) ([]float64, error) {
	return c.subset(ctx, ndviProduct, ndviBand, b)
}

type subsetResponse struct {
	Subset []struct {
		CalendarDate string    `json:"calendar_date"`
		Data         []float64 `json:"data"`
	} `json:"subset"`
}

func (c *Client) subset(ctx context.Context, product, band string, b *watershed.Boundary) ([]float64, error) {
	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%f", b.Centroid.Lat))
	q.Set("longitude", fmt.Sprintf("%f", b.Centroid.Lon))
	q.Set("band", band)
	q.Set("startDate", fmt.Sprintf("A%d001", c.year))
	q.Set("endDate", fmt.Sprintf("A%d365", c.year))
	q.Set("kmAboveBelow", fmt.Sprintf("%d", c.kmAround))
	q.Set("kmLeftRight", fmt.Sprintf("%d", c.kmAround))

	reqURL := fmt.Sprintf("%s/%s/subset?%s", c.baseURL, product, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s subset: %w", product, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from subset service", resp.StatusCode)
	}

	var result subsetResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode %s subset: %w", product, err)
	}

	var values []float64
	for _, composite := range result.Subset {
		values = append(values, composite.Data...)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("empty %s subset for basin %s", product, b.Site.ID)
	}
	return values, nil
}
