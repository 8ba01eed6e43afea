// Package natsgo provides a client for gNATSGO soil survey properties via
// the USDA Soil Data Access tabular service.
package natsgo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/soil"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the Soil Data Access tabular query endpoint.
	DefaultBaseURL = "https://sdmdataaccess.sc.egov.usda.gov/Tabular/post.rest"

	// ProviderName identifies this provider.
	ProviderName = "gnatsgo"
)

// propertiesQuery averages saturated water content, available water
// capacity and 1/3-bar water content over the major components of the map
// units intersecting the basin. Percent columns are converted to
// volumetric fractions client-side.
const propertiesQuery = `SELECT AVG(ch.wsatiated_r) AS porosity, AVG(ch.awc_r) AS awc, AVG(ch.wthirdbar_r) AS field_capacity
FROM SDA_Get_Mukey_from_intersection_with_WktWgs84('%s') AS mu
INNER JOIN component AS c ON c.mukey = mu.mukey AND c.majcompflag = 'Yes'
INNER JOIN chorizon AS ch ON ch.cokey = c.cokey`

// ClientConfig holds configuration for the Soil Data Access client.
type ClientConfig struct {
	// BaseURL is the service URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries gNATSGO-backed soil properties.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Soil Data Access client.
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
			MaxRetries:      2,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

type tabularRequest struct {
	Query  string `json:"query"`
	Format string `json:"format"`
}

type tabularResponse struct {
	Table [][]string `json:"Table"`
}

// Properties returns basin-mean survey properties for the boundary. The
// spatial filter uses the basin's bounding box; map units are matched by
// intersection server-side.
func (c *Client) Properties(ctx context.Context, b *watershed.Boundary) (*soil.Properties, error) {
	query := fmt.Sprintf(propertiesQuery, bboxWKT(b))
	body, err := json.Marshal(tabularRequest{Query: query, Format: "JSON+COLUMNNAME"})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query soil data access: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from soil data access", resp.StatusCode)
	}

	var result tabularResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode soil response: %w", err)
	}
	// First row is column names under JSON+COLUMNNAME.
	if len(result.Table) < 2 || len(result.Table[1]) < 3 {
		return nil, fmt.Errorf("no soil map units intersect basin %s", b.Site.ID)
	}

	row := result.Table[1]
	porosityPct, err := parseColumn(row[0], "porosity")
	if err != nil {
		return nil, err
	}
	awc, err := parseColumn(row[1], "awc")
	if err != nil {
		return nil, err
	}
	fieldCapPct, err := parseColumn(row[2], "field_capacity")
	if err != nil {
		return nil, err
	}

	return &soil.Properties{
		Porosity:      porosityPct / 100,
		AWC:           awc,
		FieldCapacity: fieldCapPct / 100,
	}, nil
}

func parseColumn(raw, name string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("soil column %s is empty", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse soil column %s value %q: %w", name, raw, err)
	}
	return v, nil
}

// bboxWKT renders the basin bounding box as a WGS84 WKT polygon,
// counter-clockwise, closed.
func bboxWKT(b *watershed.Boundary) string {
	box := b.BoundingBox()
	return fmt.Sprintf("POLYGON((%[1]f %[3]f, %[2]f %[3]f, %[2]f %[4]f, %[1]f %[4]f, %[1]f %[3]f))",
		box.MinLon, box.MaxLon, box.MinLat, box.MaxLat)
}
