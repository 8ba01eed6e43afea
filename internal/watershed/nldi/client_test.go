package nldi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/watershed"
	"github.com/galib9690/camels-attrs/internal/watershed/nldi"
)

const basinResponse = `{
	"type": "FeatureCollection",
	"features": [{
		"type": "Feature",
		"geometry": {
			"type": "Polygon",
			"coordinates": [[[-69.5,45.0],[-69.0,45.0],[-69.0,45.5],[-69.5,45.5],[-69.5,45.0]]]
		},
		"properties": {}
	}]
}`

func TestClient_FetchBasin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/linked-data/nwissite/USGS-01031500/basin", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(basinResponse))
	}))
	defer server.Close()

	client := nldi.NewClient(nldi.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	polygon, err := client.FetchBasin(context.Background(), "01031500")
	require.NoError(t, err)
	assert.Len(t, polygon.Exterior, 5)
	assert.Greater(t, polygon.AreaKm2(), 0.0)
}

func TestClient_FetchBasinUnknownGauge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := nldi.NewClient(nldi.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchBasin(context.Background(), "00000000")
	assert.ErrorIs(t, err, watershed.ErrGaugeNotFound)
}

func TestClient_FetchBasinEmptyCollection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer server.Close()

	client := nldi.NewClient(nldi.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.FetchBasin(context.Background(), "01031500")
	assert.Error(t, err)
}

func TestClient_FetchSitePoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/linked-data/nwissite/USGS-01031500", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"type": "FeatureCollection",
			"features": [{
				"type": "Feature",
				"geometry": {"type": "Point", "coordinates": [-69.3147, 45.1753]},
				"properties": {"name": "PISCATAQUIS RIVER NEAR DOVER-FOXCROFT, MAINE"}
			}]
		}`))
	}))
	defer server.Close()

	client := nldi.NewClient(nldi.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	pt, err := client.FetchSitePoint(context.Background(), "01031500")
	require.NoError(t, err)
	assert.InDelta(t, 45.1753, pt.Lat, 1e-9)
}
