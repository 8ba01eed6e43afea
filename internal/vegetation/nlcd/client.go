// Package nlcd provides a client for NLCD land cover, sampled as point
// identify queries against the MRLC image service.
package nlcd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the MRLC land cover image service.
	DefaultBaseURL = "https://www.mrlc.gov/arcgis/rest/services/NLCD_2021_Land_Cover_L48/ImageServer"

	// ProviderName identifies this provider.
	ProviderName = "nlcd"
)

// ClientConfig holds configuration for the NLCD client.
type ClientConfig struct {
	// BaseURL is the image service root (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// GridSize is the basin sampling grid dimension per axis (default: 8).
	GridSize int
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client samples NLCD land cover classes over a basin grid.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	gridSize   int
}

// NewClient creates a new NLCD client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	gridSize := cfg.GridSize
	if gridSize == 0 {
		gridSize = 8
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
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		gridSize:   gridSize,
	}
}

type identifyResponse struct {
	Value string `json:"value"`
}

// LandCover returns NLCD class code counts sampled over the basin grid.
// Points without data ("NoData") are skipped.
func (c *Client) LandCover(ctx context.Context, b *watershed.Boundary) (map[int]int, error) {
	points := b.Polygon.GridPoints(c.gridSize)
	if len(points) == 0 {
		points = append(points, b.Centroid)
	}

	counts := make(map[int]int)
	for _, pt := range points {
		code, ok, err := c.identify(ctx, pt.Lat, pt.Lon)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		counts[code]++
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no land cover coverage over basin %s", b.Site.ID)
	}
	return counts, nil
}

func (c *Client) identify(ctx context.Context, lat, lon float64) (int, bool, error) {
	q := url.Values{}
	q.Set("geometry", fmt.Sprintf(`{"x":%f,"y":%f}`, lon, lat))
	q.Set("geometryType", "esriGeometryPoint")
	q.Set("sr", "4326")
	q.Set("returnGeometry", "false")
	q.Set("returnCatalogItems", "false")
	q.Set("f", "json")

	reqURL := fmt.Sprintf("%s/identify?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("identify land cover: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("unexpected status %d from land cover service", resp.StatusCode)
	}

	var result identifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, false, fmt.Errorf("decode identify response: %w", err)
	}

	raw := strings.TrimSpace(result.Value)
	if raw == "" || strings.EqualFold(raw, "NoData") {
		return 0, false, nil
	}
	code, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("parse land cover class %q: %w", raw, err)
	}
	return code, true, nil
}
