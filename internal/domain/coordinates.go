package domain

import (
	"fmt"
	"regexp"
)

// FallbackMarker prefixes addresses built from raw coordinates.
const FallbackMarker = "📍"

// coordinateAddressRe matches a bare "<lat>, <lon>" pair. Both numbers must
// have a fractional part. Ranges are not validated.
var coordinateAddressRe = regexp.MustCompile(`^-?\d+\.\d+,\s*-?\d+\.\d+$`)

// IsCoordinateAddress reports whether address is a raw coordinate pair rather
// than a resolved street address.
func IsCoordinateAddress(address string) bool {
	return coordinateAddressRe.MatchString(address)
}

// FallbackAddress formats coordinates for display when no street address can
// be resolved, e.g. "📍 Location (40.712800, -74.006000)".
func FallbackAddress(lat, lon float64) string {
	return fmt.Sprintf("%s Location (%.6f, %.6f)", FallbackMarker, lat, lon)
}
