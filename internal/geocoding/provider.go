// Package geocoding selects and assembles the reverse geocoder used by the
// normalizer from service configuration.
package geocoding

import (
	"log/slog"

	"github.com/couchcryptid/hazard-normalizer/internal/adapter/mapbox"
	"github.com/couchcryptid/hazard-normalizer/internal/adapter/nominatim"
	"github.com/couchcryptid/hazard-normalizer/internal/config"
	"github.com/couchcryptid/hazard-normalizer/internal/domain"
	"github.com/couchcryptid/hazard-normalizer/internal/observability"
)

// New builds the configured provider wrapped in an LRU cache. It returns nil
// when geocoding is disabled, in which case every coordinate address takes the
// fallback path.
func New(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.Geocoder {
	var inner domain.Geocoder
	switch cfg.GeocoderProvider() {
	case "mapbox":
		inner = mapbox.NewClient(cfg.MapboxToken, cfg.GeocodeTimeout, cfg.MapboxRateLimit, metrics, logger)
	case "nominatim":
		inner = nominatim.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.GeocodeTimeout, cfg.NominatimRateLimit, metrics, logger)
	default:
		metrics.GeocodeEnabled.Set(0)
		logger.Info("reverse geocoding disabled, coordinate addresses will use the fallback format")
		return nil
	}

	metrics.GeocodeEnabled.Set(1)
	logger.Info("reverse geocoding enabled",
		"provider", cfg.GeocoderProvider(),
		"cache_size", cfg.GeocodeCacheSize,
		"timeout", cfg.GeocodeTimeout,
	)
	return NewCachedGeocoder(inner, cfg.GeocodeCacheSize, metrics)
}
