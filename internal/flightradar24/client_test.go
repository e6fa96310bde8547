package flightradar24

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s-martin/shinysdr/internal/models"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

func TestClient_RunPollsFeedIntoIndex(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer ts.Close()

	index := telemetry.NewIndex()
	sightings := make(chan *models.Sighting, 10)
	client := NewClient(ts.URL, nil, time.Second, index, sightings)

	err := client.Run(context.Background())
	require.NoError(t, err)

	// Both records become objects; only the one with position and callsign
	// is interesting.
	assert.Equal(t, 2, index.Len())
	members := index.Implementing(IAircraft).Get()
	require.Len(t, members, 1)
	assert.Equal(t, "2f4e85c3", members[0].(*Aircraft).ID())

	assert.Len(t, sightings, 2)
}

func TestClient_RunNilSightingChannel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeed))
	}))
	defer ts.Close()

	index := telemetry.NewIndex()
	client := NewClient(ts.URL, nil, time.Second, index, nil)

	require.NoError(t, client.Run(context.Background()))
	assert.Equal(t, 2, index.Len())
}

func TestClient_RunFeedError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(ts.URL, nil, time.Second, telemetry.NewIndex(), nil)

	err := client.Run(context.Background())
	assert.ErrorContains(t, err, "status 503")
}

func TestClient_RequestURLBounds(t *testing.T) {
	client := NewClient("https://example.test/feed.js?air=1", []float64{50.5, 52, 3, 7.25}, time.Second, telemetry.NewIndex(), nil)

	reqURL, err := client.requestURL()
	require.NoError(t, err)

	parsed, err := url.Parse(reqURL)
	require.NoError(t, err)
	assert.Equal(t, "50.5,52,3,7.25", parsed.Query().Get("bounds"))
	assert.Equal(t, "1", parsed.Query().Get("air"))
}

func TestClient_RequestURLNoBounds(t *testing.T) {
	client := NewClient("https://example.test/feed.js", nil, time.Second, telemetry.NewIndex(), nil)

	reqURL, err := client.requestURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/feed.js", reqURL)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("", nil, 0, telemetry.NewIndex(), nil)

	assert.Equal(t, DefaultFeedURL, client.feedURL)
	assert.Equal(t, DefaultPollInterval, client.Interval())
	assert.Equal(t, "flightradar24-poll", client.Name())
}
