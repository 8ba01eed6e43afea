// Package tdep provides a client for the USGS 3DEP Elevation Point Query
// Service.
package tdep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the elevation point query service.
	DefaultBaseURL = "https://epqs.nationalmap.gov/v1/json"

	// ProviderName identifies this provider.
	ProviderName = "3dep"

	// noDataValue is returned by the service for points without coverage.
	noDataValue = -1000000
)

// ClientConfig holds configuration for the 3DEP client.
type ClientConfig struct {
	// BaseURL is the service URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a 3DEP elevation point query client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new 3DEP client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      2,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

type elevationResponse struct {
	Value json.Number `json:"value"`
}

// Elevation returns the terrain elevation in meters at the given point.
func (c *Client) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf("%s?x=%f&y=%f&units=Meters&wkid=4326&includeDate=false", c.baseURL, lon, lat)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch elevation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d from elevation service", resp.StatusCode)
	}

	var result elevationResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode elevation response: %w", err)
	}

	elev, err := result.Value.Float64()
	if err != nil {
		return 0, fmt.Errorf("parse elevation value %q: %w", result.Value, err)
	}
	if elev <= noDataValue {
		return 0, fmt.Errorf("no elevation coverage at %.5f,%.5f", lat, lon)
	}
	return elev, nil
}
