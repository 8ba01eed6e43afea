// Package glim provides a client for GLiM lithology and GLHYMPS subsurface
// properties, sampled as point queries against an ArcGIS feature service.
package glim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/geology"
	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the lithology feature service root.
	DefaultBaseURL = "https://dmap-data-commons-ow.s3.amazonaws.com/arcgis/rest/services/GLiM_GLHYMPS/FeatureServer/0"

	// ProviderName identifies this provider.
	ProviderName = "glim"
)

// ClientConfig holds configuration for the GLiM client.
type ClientConfig struct {
	// BaseURL is the feature service layer URL (defaults to
	// DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// GridSize is the basin sampling grid dimension per axis (default: 6).
	GridSize int
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client samples lithology classes and subsurface properties over a basin
// grid.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	gridSize   int
}

// NewClient creates a new GLiM client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	gridSize := cfg.GridSize
	if gridSize == 0 {
		gridSize = 6
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

// Available probes the feature service once. Wiring uses the answer to
// install either this client or a skipped geology extractor.
func (c *Client) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?f=json", http.NoBody)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type queryResponse struct {
	Features []struct {
		Attributes struct {
			Litho        string  `json:"xx"`
			Porosity     float64 `json:"porosity"`
			Permeability float64 `json:"logK_Ice"`
		} `json:"attributes"`
	} `json:"features"`
}

// Composition samples the basin grid and aggregates lithology class shares
// and mean subsurface properties. Points without a covering polygon are
// skipped.
func (c *Client) Composition(ctx context.Context, b *watershed.Boundary) (*geology.Composition, error) {
	points := b.Polygon.GridPoints(c.gridSize)
	if len(points) == 0 {
		points = append(points, b.Centroid)
	}

	classCounts := make(map[string]int)
	var porositySum, permSum float64
	covered := 0
	for _, pt := range points {
		q := url.Values{}
		q.Set("geometry", fmt.Sprintf("%f,%f", pt.Lon, pt.Lat))
		q.Set("geometryType", "esriGeometryPoint")
		q.Set("inSR", "4326")
		q.Set("spatialRel", "esriSpatialRelIntersects")
		q.Set("outFields", "xx,porosity,logK_Ice")
		q.Set("returnGeometry", "false")
		q.Set("f", "json")

		reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, q.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("query lithology: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d from lithology service", resp.StatusCode)
		}

		var result queryResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode lithology response: %w", err)
		}
		if len(result.Features) == 0 {
			continue
		}

		attrs := result.Features[0].Attributes
		classCounts[attrs.Litho]++
		porositySum += attrs.Porosity
		permSum += attrs.Permeability
		covered++
	}

	if covered == 0 {
		return nil, fmt.Errorf("no lithology coverage over basin %s", b.Site.ID)
	}

	classes := make([]geology.ClassShare, 0, len(classCounts))
	for code, n := range classCounts {
		classes = append(classes, geology.ClassShare{
			Code: code,
			Frac: float64(n) / float64(covered),
		})
	}
	sort.Slice(classes, func(i, j int) bool {
		if classes[i].Frac != classes[j].Frac {
			return classes[i].Frac > classes[j].Frac
		}
		return classes[i].Code < classes[j].Code
	})

	return &geology.Composition{
		Classes:      classes,
		Porosity:     porositySum / float64(covered),
		Permeability: permSum / float64(covered),
	}, nil
}
