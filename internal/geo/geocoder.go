package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reliefscout/reliefscout/internal/cache"
	"github.com/reliefscout/reliefscout/internal/model"
)

// Coordinates is a geocoder hit for a place name.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geocoder resolves place names to coordinates. Implementations must
// return ErrNotFound (wrapped or bare) when the place is unknown.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*Coordinates, error)
}

// ErrNotFound indicates the geocoder had no result for the place name.
var ErrNotFound = fmt.Errorf("place not found")

// Client is a Nominatim-shaped geocoding client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// nominatimResult mirrors one entry of the search response. Nominatim
// returns lat/lon as strings.
type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// NewClient creates a geocoding client for the given endpoint.
func NewClient(cfg *model.GeocoderConfig, userAgent string) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Geocode looks up a place name. A missing result is ErrNotFound, not a
// transport error; callers degrade either way.
func (c *Client) Geocode(ctx context.Context, place string) (*Coordinates, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return nil, ErrNotFound
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create geocode request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read geocode response: %w", err)
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}

	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}

// CachedGeocoder wraps a Geocoder with a cache. Place names geocode to
// stable answers, so hits skip the network entirely.
type CachedGeocoder struct {
	inner Geocoder
	store cache.Cache
	ttl   time.Duration
}

// NewCachedGeocoder wraps geocoder lookups with the given cache.
func NewCachedGeocoder(inner Geocoder, store cache.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, store: store, ttl: ttl}
}

// Geocode consults the cache before the wrapped geocoder. Only positive
// hits are cached; not-found answers retry on the next call.
func (g *CachedGeocoder) Geocode(ctx context.Context, place string) (*Coordinates, error) {
	key := cache.GeocodeKey(place)

	if data, found := g.store.Get(key); found {
		var coords Coordinates
		if err := json.Unmarshal(data, &coords); err == nil {
			return &coords, nil
		}
	}

	coords, err := g.inner.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(coords); err == nil {
		_ = g.store.Set(key, data, g.ttl)
	}
	return coords, nil
}
