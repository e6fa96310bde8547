package flightradar24

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/s-martin/shinysdr/internal/models"
	"github.com/s-martin/shinysdr/internal/telemetry"
)

// DefaultFeedURL is the live flightradar24 zone feed.
const DefaultFeedURL = "https://data-live.flightradar24.com/zones/fcgi/feed.js?faa=1&mlat=1&flarm=1&adsb=1&gnd=0&air=1&vehicles=0&estimated=1&maxage=14400&gliders=1&stats=0"

// DefaultPollInterval matches the feed's own refresh cadence.
const DefaultPollInterval = 8 * time.Second

// Client polls the flightradar24 feed and feeds decoded reports into the
// telemetry index and the sightings channel. It is run as a scheduler task:
// each Run is one fetch-and-dispatch pass.
type Client struct {
	httpClient *http.Client
	feedURL    string
	bounds     []float64 // optional lat1,lat2,lon1,lon2 search restriction
	interval   time.Duration
	index      *telemetry.Index
	sightings  chan<- *models.Sighting
}

// NewClient creates a feed client. bounds is either empty or the 4-element
// lat1,lat2,lon1,lon2 restriction the feed accepts. sightings may be nil to
// disable persistence.
func NewClient(feedURL string, bounds []float64, interval time.Duration, index *telemetry.Index, sightings chan<- *models.Sighting) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		feedURL:    feedURL,
		bounds:     bounds,
		interval:   interval,
		index:      index,
		sightings:  sightings,
	}
}

// Name implements scheduler.Task.
func (c *Client) Name() string { return "flightradar24-poll" }

// Interval implements scheduler.Task.
func (c *Client) Interval() time.Duration { return c.interval }

// Run performs one poll: fetch the feed, decode it, route every record into
// the index, and hand the persistence rows to the collector. Fetch and
// decode failures are returned so the scheduler logs them; the next tick
// retries.
func (c *Client) Run(ctx context.Context) error {
	reqURL, err := c.requestURL()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build feed request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("feed fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read feed body: %w", err)
	}

	updates, err := decodeFeed(body)
	if err != nil {
		return err
	}

	dropped := 0
	for _, u := range updates {
		c.index.Receive(u)
		if c.sightings == nil {
			continue
		}
		select {
		case c.sightings <- u.sighting():
		default:
			dropped++
		}
	}
	if dropped > 0 {
		slog.Warn("Sighting channel full, dropping records", "dropped", dropped)
	}
	slog.Debug("Feed poll complete", "aircraft", len(updates), "tracked", c.index.Len())
	return nil
}

// requestURL appends the bounds restriction to the configured feed URL.
func (c *Client) requestURL() (string, error) {
	if len(c.bounds) == 0 {
		return c.feedURL, nil
	}

	parsed, err := url.Parse(c.feedURL)
	if err != nil {
		return "", fmt.Errorf("invalid feed URL %q: %w", c.feedURL, err)
	}
	parts := make([]string, len(c.bounds))
	for i, b := range c.bounds {
		parts[i] = strconv.FormatFloat(b, 'f', -1, 64)
	}
	q := parsed.Query()
	q.Set("bounds", strings.Join(parts, ","))
	parsed.RawQuery = q.Encode()
	return parsed.String(), nil
}
