package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCoordinateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"zero pair", "0.0, 0.0", true},
		{"new york", "40.7128, -74.0060", true},
		{"no space", "40.7128,-74.0060", true},
		{"extra spaces", "40.7128,    -74.0060", true},
		{"both negative", "-33.8688, -151.2093", true},
		{"out of range is still accepted", "200.0, -400.0", true},
		{"street address", "123 Main St", false},
		{"not available", "N/A", false},
		{"empty", "", false},
		{"missing fractional part", "40.71, -74", false},
		{"integers", "40, -74", false},
		{"leading space", " 40.7128, -74.0060", false},
		{"trailing text", "40.7128, -74.0060 NYC", false},
		{"space before comma", "40.7128 , -74.0060", false},
		{"plus sign", "+40.7128, -74.0060", false},
		{"already normalized", "📍 Location (40.712800, -74.006000)", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCoordinateAddress(tt.address))
		})
	}
}

func TestFallbackAddress(t *testing.T) {
	assert.Equal(t, "📍 Location (40.712800, -74.006000)", FallbackAddress(40.7128, -74.0060))
	assert.Equal(t, "📍 Location (0.000000, 0.000000)", FallbackAddress(0, 0))
	assert.Equal(t, "📍 Location (-33.868800, 151.209300)", FallbackAddress(-33.8688, 151.2093))
}

func TestFallbackAddress_IsNotCoordinateAddress(t *testing.T) {
	assert.False(t, IsCoordinateAddress(FallbackAddress(40.7128, -74.0060)))
}
