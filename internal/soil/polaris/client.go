// Package polaris provides a client for the POLARIS probabilistic soil
// property layers, sampled as point queries over the basin.
package polaris

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/soil"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the POLARIS property layer root.
	DefaultBaseURL = "http://hydrology.cee.duke.edu/POLARIS/PROPERTIES/v1.0"

	// ProviderName identifies this provider.
	ProviderName = "polaris"
)

// Depth layers sampled for every variable, shallowest first.
var depthLayers = []string{"0_5", "5_15", "15_30"}

// ClientConfig holds configuration for the POLARIS client.
type ClientConfig struct {
	// BaseURL is the property layer root (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// GridSize is the basin sampling grid dimension per axis (default: 4).
	GridSize int
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client samples POLARIS texture and conductivity layers.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	gridSize   int
}

// NewClient creates a new POLARIS client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	gridSize := cfg.GridSize
	if gridSize == 0 {
		gridSize = 4
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

type pointResponse struct {
	Value float64 `json:"value"`
}

// Texture returns texture fractions and saturated conductivity averaged
// over the basin sampling grid and the three shallow depth layers, equally
// weighted, matching how the property layers are reduced elsewhere in the
// attribute literature.
func (c *Client) Texture(ctx context.Context, b *watershed.Boundary) (*soil.Texture, error) {
	points := b.Polygon.GridPoints(c.gridSize)
	if len(points) == 0 {
		points = append(points, b.Centroid)
	}

	sand, err := c.layerMean(ctx, "sand", points)
	if err != nil {
		return nil, err
	}
	silt, err := c.layerMean(ctx, "silt", points)
	if err != nil {
		return nil, err
	}
	clay, err := c.layerMean(ctx, "clay", points)
	if err != nil {
		return nil, err
	}
	ksat, err := c.layerMean(ctx, "ksat", points)
	if err != nil {
		return nil, err
	}

	return &soil.Texture{
		SandFrac: sand,
		SiltFrac: silt,
		ClayFrac: clay,
		KsatCmHr: ksat,
	}, nil
}

// layerMean averages one variable across all depth layers and grid points.
// A point without coverage (water bodies, border cells) is skipped rather
// than failing the variable.
func (c *Client) layerMean(ctx context.Context, variable string, points []geo.Point) (float64, error) {
	var sum float64
	count := 0
	for _, depth := range depthLayers {
		for _, pt := range points {
			v, ok, err := c.sample(ctx, variable, depth, pt.Lat, pt.Lon)
			if err != nil {
				return 0, fmt.Errorf("sample %s/%s: %w", variable, depth, err)
			}
			if !ok {
				continue
			}
			sum += v
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("no %s coverage over basin", variable)
	}
	return sum / float64(count), nil
}

func (c *Client) sample(ctx context.Context, variable, depth string, lat, lon float64) (float64, bool, error) {
	url := fmt.Sprintf("%s/%s/mean/%s/point?lat=%f&lon=%f", c.baseURL, variable, depth, lat, lon)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("fetch sample: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, fmt.Errorf("unexpected status %d from property service", resp.StatusCode)
	}

	var result pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, false, fmt.Errorf("decode sample response: %w", err)
	}
	return result.Value, true, nil
}
