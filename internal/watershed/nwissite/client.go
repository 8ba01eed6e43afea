// Package nwissite provides a client for the USGS NWIS site service, which
// resolves a gauge identifier to station name, location, and HUC code.
// The service speaks RDB, USGS's tab-delimited text format.
package nwissite

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/galib9690/camels-attrs/internal/provider/resilience"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

const (
	// DefaultBaseURL is the base URL for the NWIS site service.
	DefaultBaseURL = "https://waterservices.usgs.gov/nwis/site/"

	// ProviderName identifies this provider.
	ProviderName = "nwis-site"
)

// ClientConfig holds configuration for the NWIS site client.
type ClientConfig struct {
	// BaseURL is the service base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual requests (default: 15s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an NWIS site service client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new NWIS site client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 15 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:            ProviderName,
			Timeout:         timeout,
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Registry:        resilience.GlobalRegistry,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// FetchSite retrieves site metadata for a gauge.
func (c *Client) FetchSite(ctx context.Context, gaugeID string) (*watershed.Site, error) {
	url := fmt.Sprintf("%s/?format=rdb&sites=%s&siteOutput=expanded", c.baseURL, gaugeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch site: %w: %v", watershed.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", watershed.ErrGaugeNotFound, gaugeID)
	default:
		return nil, fmt.Errorf("unexpected status %d from site service", resp.StatusCode)
	}

	site, err := parseRDBSite(resp.Body, gaugeID)
	if err != nil {
		return nil, err
	}
	return site, nil
}

// parseRDBSite extracts the first site row from an RDB document. RDB is
// tab-delimited: comment lines start with '#', the header row names the
// columns, and the row after the header carries column format codes.
func parseRDBSite(r io.Reader, gaugeID string) (*watershed.Site, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header []string
	skipFormatRow := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")

		if header == nil {
			header = fields
			skipFormatRow = true
			continue
		}
		if skipFormatRow {
			skipFormatRow = false
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(fields) {
				row[name] = fields[i]
			}
		}
		if row["site_no"] != gaugeID {
			continue
		}

		lat, _ := strconv.ParseFloat(row["dec_lat_va"], 64)
		lon, _ := strconv.ParseFloat(row["dec_long_va"], 64)
		huc := row["huc_cd"]
		if len(huc) > 2 {
			huc = huc[:2]
		}

		return &watershed.Site{
			ID:    gaugeID,
			Name:  row["station_nm"],
			Lat:   lat,
			Lon:   lon,
			HUC02: huc,
		}, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read site response: %w", err)
	}
	return nil, fmt.Errorf("%w: %s", watershed.ErrGaugeNotFound, gaugeID)
}
