package domain

import (
	"context"
	"errors"
)

// ErrGeocodingUnavailable covers every way a reverse lookup can fail to produce
// an address: the provider returned an error, or it returned nothing.
var ErrGeocodingUnavailable = errors.New("geocoding unavailable")

// GeocodeResult is a resolved street address.
type GeocodeResult struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// Empty reports whether the result carries no street address.
func (r *GeocodeResult) Empty() bool {
	return r == nil || r.Address == ""
}

// Geocoder resolves coordinates to a street address.
type Geocoder interface {
	// ReverseGeocode returns nil with no error when the provider has no match.
	ReverseGeocode(ctx context.Context, lat, lon float64) (*GeocodeResult, error)
}
