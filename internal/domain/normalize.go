package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Normalization outcomes reported by AddressOutcome.
const (
	OutcomePassthrough = "passthrough"
	OutcomeResolved    = "resolved"
	OutcomeFallback    = "fallback"
)

// NormalizeAddress replaces a coordinate address with a reverse-geocoded one.
// Reports whose address is not a coordinate pair are returned unchanged. When
// geocoding is unavailable (nil geocoder, provider error, or no match) the
// address is replaced with FallbackAddress and the other location fields are
// kept as they were. Errors are logged, never returned.
func NormalizeAddress(ctx context.Context, report Report, geocoder Geocoder, logger *slog.Logger) Report {
	if !IsCoordinateAddress(report.Location.Address) {
		return report
	}

	lat := report.Location.Coordinates.Latitude
	lon := report.Location.Coordinates.Longitude

	result, err := reverseGeocode(ctx, geocoder, lat, lon)
	if err != nil {
		logger.Warn("reverse geocoding failed, using coordinate fallback",
			"report_id", report.ID,
			"lat", lat,
			"lon", lon,
			"error", err,
		)
		report.Location.Address = FallbackAddress(lat, lon)
		return report
	}

	report.Location.Address = result.Address
	report.Location.City = result.City
	report.Location.State = result.State
	report.Location.ZipCode = result.ZipCode
	return report
}

// NormalizeAddresses normalizes a batch. One geocoding call is issued per
// coordinate address, all in flight at once; the returned slice is a new slice
// in input order.
func NormalizeAddresses(ctx context.Context, reports []Report, geocoder Geocoder, logger *slog.Logger) []Report {
	out := make([]Report, len(reports))

	var wg sync.WaitGroup
	for i := range reports {
		if !IsCoordinateAddress(reports[i].Location.Address) {
			out[i] = reports[i]
			continue
		}
		wg.Go(func() {
			out[i] = NormalizeAddress(ctx, reports[i], geocoder, logger)
		})
	}
	wg.Wait()

	return out
}

// AddressOutcome classifies what NormalizeAddress did to a report.
func AddressOutcome(before, after Report) string {
	if !IsCoordinateAddress(before.Location.Address) {
		return OutcomePassthrough
	}
	if strings.HasPrefix(after.Location.Address, FallbackMarker+" ") {
		return OutcomeFallback
	}
	return OutcomeResolved
}

// reverseGeocode folds provider errors and empty results into ErrGeocodingUnavailable.
func reverseGeocode(ctx context.Context, geocoder Geocoder, lat, lon float64) (*GeocodeResult, error) {
	if geocoder == nil {
		return nil, fmt.Errorf("%w: no geocoder configured", ErrGeocodingUnavailable)
	}
	result, err := geocoder.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeocodingUnavailable, err)
	}
	if result.Empty() {
		return nil, fmt.Errorf("%w: no address found", ErrGeocodingUnavailable)
	}
	return result, nil
}
