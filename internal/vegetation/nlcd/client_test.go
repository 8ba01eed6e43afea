package nlcd_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/vegetation/nlcd"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

func testBoundary() *watershed.Boundary {
	poly := geo.Polygon{Exterior: geo.Ring{
		{Lat: 45.0, Lon: -69.5},
		{Lat: 45.0, Lon: -69.0},
		{Lat: 45.5, Lon: -69.0},
		{Lat: 45.5, Lon: -69.5},
	}}
	return &watershed.Boundary{
		Site:     watershed.Site{ID: "01031500"},
		Polygon:  poly,
		Centroid: poly.Centroid(),
	}
}

func TestLandCover(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/identify"))
		assert.Equal(t, "esriGeometryPoint", r.URL.Query().Get("geometryType"))
		assert.Equal(t, "json", r.URL.Query().Get("f"))

		calls++
		if calls%3 == 0 {
			w.Write([]byte(`{"value":"81"}`))
			return
		}
		w.Write([]byte(`{"value":"42"}`))
	}))
	defer server.Close()

	client := nlcd.NewClient(nlcd.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		GridSize:   4,
	})

	counts, err := client.LandCover(context.Background(), testBoundary())
	require.NoError(t, err)

	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, calls, total)
	assert.Greater(t, counts[42], counts[81])
}

func TestLandCover_SkipsNoData(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"value":"NoData"}`))
			return
		}
		w.Write([]byte(`{"value":"71"}`))
	}))
	defer server.Close()

	client := nlcd.NewClient(nlcd.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		GridSize:   4,
	})

	counts, err := client.LandCover(context.Background(), testBoundary())
	require.NoError(t, err)
	assert.Equal(t, calls-1, counts[71])
}

func TestLandCover_NoCoverage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":"NoData"}`))
	}))
	defer server.Close()

	client := nlcd.NewClient(nlcd.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
		GridSize:   4,
	})

	_, err := client.LandCover(context.Background(), testBoundary())
	assert.ErrorContains(t, err, "no land cover coverage")
}
