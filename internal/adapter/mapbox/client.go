package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/couchcryptid/hazard-normalizer/internal/observability"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"
	providerName   = "mapbox"
)

// Client implements domain.Geocoder using the Mapbox Geocoding API.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Mapbox geocoding client allowing at most
// requestsPerSecond outbound requests.
func NewClient(token string, timeout time.Duration, requestsPerSecond int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		metrics: metrics,
		logger:  logger,
	}
}

// ReverseGeocode converts coordinates to a street address. It returns nil
// without error when Mapbox has no matching feature.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	// Mapbox uses lon,lat order.
	coord := fmt.Sprintf("%.6f,%.6f", lon, lat)
	u := fmt.Sprintf("%s/%s.json", c.baseURL, coord)
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"address"},
	}

	start := time.Now()
	result, err := c.doRequest(ctx, u+"?"+params.Encode())
	c.metrics.GeocodeAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
	case result == nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		c.logger.Debug("mapbox returned no features", "lat", lat, "lon", lon)
	default:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (*domain.GeocodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(mapboxResp.Features) == 0 {
		return nil, nil
	}
	return mapboxResp.Features[0].toResult(), nil
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID        string        `json:"id"` // "<type>.<id>", e.g. "address.4356035406756260"
	PlaceType []string      `json:"place_type"`
	Text      string        `json:"text"`    // street name for address features
	Address   string        `json:"address"` // house number for address features
	PlaceName string        `json:"place_name"`
	Context   []contextItem `json:"context"`
}

type contextItem struct {
	ID        string `json:"id"` // "postcode.123", "place.456", "region.789", ...
	Text      string `json:"text"`
	ShortCode string `json:"short_code"` // "US-NY" for regions
}

func (f feature) toResult() *domain.GeocodeResult {
	result := &domain.GeocodeResult{Address: f.streetAddress()}
	for _, c := range f.Context {
		switch contextType(c.ID) {
		case "place":
			result.City = c.Text
		case "region":
			result.State = regionCode(c)
		case "postcode":
			result.ZipCode = c.Text
		}
	}
	return result
}

func (f feature) streetAddress() string {
	if f.isAddress() && f.Text != "" {
		if f.Address != "" {
			return f.Address + " " + f.Text
		}
		return f.Text
	}
	return f.PlaceName
}

func (f feature) isAddress() bool {
	for _, t := range f.PlaceType {
		if t == "address" {
			return true
		}
	}
	return false
}

func contextType(id string) string {
	typ, _, _ := strings.Cut(id, ".")
	return typ
}

// regionCode turns "US-NY" into "NY"; regions without a short code keep their name.
func regionCode(c contextItem) string {
	if _, code, ok := strings.Cut(c.ShortCode, "-"); ok && code != "" {
		return code
	}
	return c.Text
}
