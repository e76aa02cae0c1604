package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is where a hazard was reported. City, State, and ZipCode are
// populated by geocoding.
type Location struct {
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	City        string      `json:"city,omitempty"`
	State       string      `json:"state,omitempty"`
	ZipCode     string      `json:"zipCode,omitempty"`
}

// Report is a single road-hazard report.
type Report struct {
	ID          string    `json:"id"`
	HazardType  string    `json:"hazardType,omitempty"` // pothole, debris, flooding, ...
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status,omitempty"`
	ReportedBy  string    `json:"reportedBy,omitempty"`
	ReportedAt  time.Time `json:"reportedAt"`
	Location    Location  `json:"location"`

	RawPayload []byte `json:"-"`
}
