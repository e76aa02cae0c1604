// Package domain models road-hazard reports submitted by drivers and the
// address normalization applied to them before they reach the dashboards.
//
// # Report Location
//
// Every report carries a location block:
//
//	{
//	  "address": "123 Main St",
//	  "coordinates": {"latitude": 40.7128, "longitude": -74.006},
//	  "city": "New York", "state": "NY", "zipCode": "10001"
//	}
//
// The mobile client fills "address" from whatever it has at submission time.
// When the device could not resolve a street address it stores the raw
// position instead, e.g. "40.7128, -74.0060". Such a value is a coordinate
// address: a placeholder, not something a person should read on a map card.
//
// # Coordinate Addresses
//
// A coordinate address matches exactly:
//
//	^-?\d+\.\d+,\s*-?\d+\.\d+$
//
// Both sides need a fractional part, so "40.71, -74" is not one. The pattern
// does not check ranges; "200.0, -400.0" matches. See [IsCoordinateAddress].
//
// # Normalization
//
// [NormalizeAddress] replaces a coordinate address with the reverse-geocoded
// street address, city, state, and zip. When the geocoder fails or finds
// nothing the address becomes a fallback string built from the report's
// coordinates:
//
//	📍 Location (40.712800, -74.006000)
//
// City, state, and zip are left alone on the fallback path. Geocoding errors
// are logged and swallowed; normalization always yields a report.
//
// [NormalizeAddresses] does the same for a batch, issuing the geocoding calls
// concurrently and returning reports in input order.
package domain
