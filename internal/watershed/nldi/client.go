// Package nldi provides a client for the USGS Hydro Network-Linked Data
// Index (NLDI), used to navigate from a gauge to its contributing basin.
package nldi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the base URL for the NLDI API.
	DefaultBaseURL = "https://api.water.usgs.gov/nldi"

	// ProviderName identifies this provider.
	ProviderName = "nldi"
)

// ClientConfig holds configuration for the NLDI client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 30s; basin
	// delineation can be slow for large watersheds).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an NLDI API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new NLDI client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchBasin retrieves the contributing basin polygon for a USGS gauge.
func (c *Client) FetchBasin(ctx context.Context, gaugeID string) (geo.Polygon, error) {
	url := fmt.Sprintf("%s/linked-data/nwissite/USGS-%s/basin", c.baseURL, gaugeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return geo.Polygon{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Polygon{}, fmt.Errorf("fetch basin: %w: %v", watershed.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return geo.Polygon{}, fmt.Errorf("%w: USGS-%s", watershed.ErrGaugeNotFound, gaugeID)
	default:
		return geo.Polygon{}, fmt.Errorf("unexpected status %d from basin endpoint", resp.StatusCode)
	}

	var fc geo.FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return geo.Polygon{}, fmt.Errorf("decode basin response: %w", err)
	}
	if len(fc.Features) == 0 {
		return geo.Polygon{}, fmt.Errorf("basin response has no features for USGS-%s", gaugeID)
	}

	polygon, err := fc.Features[0].Geometry.AsPolygon()
	if err != nil {
		return geo.Polygon{}, fmt.Errorf("basin geometry: %w", err)
	}
	return polygon, nil
}

// FetchSitePoint retrieves the gauge's registered outlet location from the
// NLDI feature index. Used as a fallback when the site service lacks
// coordinates.
func (c *Client) FetchSitePoint(ctx context.Context, gaugeID string) (geo.Point, error) {
	url := fmt.Sprintf("%s/linked-data/nwissite/USGS-%s", c.baseURL, gaugeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return geo.Point{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("fetch site point: %w: %v", watershed.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return geo.Point{}, fmt.Errorf("%w: USGS-%s", watershed.ErrGaugeNotFound, gaugeID)
	default:
		return geo.Point{}, fmt.Errorf("unexpected status %d from site endpoint", resp.StatusCode)
	}

	var fc geo.FeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return geo.Point{}, fmt.Errorf("decode site response: %w", err)
	}
	if len(fc.Features) == 0 {
		return geo.Point{}, fmt.Errorf("site response has no features for USGS-%s", gaugeID)
	}
	return fc.Features[0].Geometry.AsPoint()
}
