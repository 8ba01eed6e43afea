package tdep_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galib9690/camels-attrs/internal/topography/tdep"
)

func TestElevation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-69.25000", r.URL.Query().Get("x")[:9])
		assert.Equal(t, "45.25000", r.URL.Query().Get("y")[:8])
		assert.Equal(t, "Meters", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"location":{"x":-69.25,"y":45.25},"value":"312.48","rasterId":61773}`))
	}))
	defer server.Close()

	client := tdep.NewClient(tdep.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	elev, err := client.Elevation(context.Background(), 45.25, -69.25)
	require.NoError(t, err)
	assert.InDelta(t, 312.48, elev, 1e-9)
}

func TestElevation_NumericValue(t *testing.T) {
	// The service sometimes returns the value as a bare number rather
	// than a quoted string.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":1523.7}`))
	}))
	defer server.Close()

	client := tdep.NewClient(tdep.ClientConfig{BaseURL: server.URL, HTTPClient: http.DefaultClient})

	elev, err := client.Elevation(context.Background(), 39.0, -105.5)
	require.NoError(t, err)
	assert.InDelta(t, 1523.7, elev, 1e-9)
}

func TestElevation_NoCoverage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":"-1000000"}`))
	}))
	defer server.Close()

	client := tdep.NewClient(tdep.ClientConfig{BaseURL: server.URL, HTTPClient: http.DefaultClient})

	_, err := client.Elevation(context.Background(), 0, 0)
	assert.ErrorContains(t, err, "no elevation coverage")
}

func TestElevation_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := tdep.NewClient(tdep.ClientConfig{BaseURL: server.URL, HTTPClient: http.DefaultClient})

	_, err := client.Elevation(context.Background(), 45.0, -69.0)
	assert.ErrorContains(t, err, "unexpected status 502")
}
