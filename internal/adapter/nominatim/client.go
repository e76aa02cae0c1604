package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/couchcryptid/hazard-normalizer/internal/observability"
	"golang.org/x/time/rate"
)

const providerName = "nominatim"

// Client implements domain.Geocoder against an OpenStreetMap Nominatim server.
// The public instance allows one request per second and requires an
// identifying User-Agent.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim reverse geocoding client.
func NewClient(baseURL, userAgent string, timeout time.Duration, requestsPerSecond int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		metrics:    metrics,
		logger:     logger,
	}
}

// ReverseGeocode converts coordinates to a street address. It returns nil
// without error when Nominatim cannot place the coordinates.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*domain.GeocodeResult, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', 6, 64))

	start := time.Now()
	result, err := c.doRequest(ctx, c.baseURL+"/reverse?"+params.Encode())
	c.metrics.GeocodeAPIDuration.WithLabelValues(providerName).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "error").Inc()
	case result == nil:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "empty").Inc()
		c.logger.Debug("nominatim could not place coordinates", "lat", lat, "lon", lon)
	default:
		c.metrics.GeocodeRequests.WithLabelValues(providerName, "success").Inc()
	}
	return result, err
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (*domain.GeocodeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	var r reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// Nominatim answers 200 with {"error": "Unable to geocode"} for empty areas.
	if r.Error != "" {
		return nil, nil
	}
	return r.toResult(), nil
}

type reverseResponse struct {
	Error       string  `json:"error"`
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

type address struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	Hamlet      string `json:"hamlet"`
	Village     string `json:"village"`
	Town        string `json:"town"`
	City        string `json:"city"`
	State       string `json:"state"`
	Postcode    string `json:"postcode"`
}

func (r reverseResponse) toResult() *domain.GeocodeResult {
	return &domain.GeocodeResult{
		Address: r.streetAddress(),
		City:    firstNonEmpty(r.Address.City, r.Address.Town, r.Address.Village, r.Address.Hamlet),
		State:   r.Address.State,
		ZipCode: r.Address.Postcode,
	}
}

func (r reverseResponse) streetAddress() string {
	if r.Address.Road == "" {
		return r.DisplayName
	}
	if r.Address.HouseNumber == "" {
		return r.Address.Road
	}
	return r.Address.HouseNumber + " " + r.Address.Road
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
