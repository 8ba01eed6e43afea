package natsgo_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/geo"
	"github.com/galib9690/camels-attrs/internal/soil/natsgo"
	"github.com/galib9690/camels-attrs/internal/watershed"
)

func testBoundary() *watershed.Boundary {
	return &watershed.Boundary{
		Site: watershed.Site{ID: "01031500"},
		Polygon: geo.Polygon{Exterior: geo.Ring{
			{Lat: 45.0, Lon: -69.5},
			{Lat: 45.0, Lon: -69.0},
			{Lat: 45.5, Lon: -69.0},
			{Lat: 45.5, Lon: -69.5},
		}},
	}
}

func TestProperties(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req map[string]string
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "JSON+COLUMNNAME", req["format"])
		assert.Contains(t, req["query"], "SDA_Get_Mukey_from_intersection_with_WktWgs84")
		assert.Contains(t, req["query"], "POLYGON((")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Table":[["porosity","awc","field_capacity"],["44.7","0.16","31.2"]]}`))
	}))
	defer server.Close()

	client := natsgo.NewClient(natsgo.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	props, err := client.Properties(context.Background(), testBoundary())
	require.NoError(t, err)

	// Percent columns come back as volumetric fractions.
	assert.InDelta(t, 0.447, props.Porosity, 1e-9)
	assert.InDelta(t, 0.16, props.AWC, 1e-9)
	assert.InDelta(t, 0.312, props.FieldCapacity, 1e-9)
}

func TestProperties_NoMapUnits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Table":[["porosity","awc","field_capacity"]]}`))
	}))
	defer server.Close()

	client := natsgo.NewClient(natsgo.ClientConfig{BaseURL: server.URL, HTTPClient: http.DefaultClient})

	_, err := client.Properties(context.Background(), testBoundary())
	assert.ErrorContains(t, err, "no soil map units")
}

func TestProperties_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := natsgo.NewClient(natsgo.ClientConfig{BaseURL: server.URL, HTTPClient: http.DefaultClient})

	_, err := client.Properties(context.Background(), testBoundary())
	assert.ErrorContains(t, err, "unexpected status 500")
}
