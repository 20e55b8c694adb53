package forecast

import (
	"time"
)

// Location represents a named point of interest we fetch forecasts for.
// Name is the identity of a location within one aggregation run.
type Location struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// HourlyObservation is one row of the flat forecast table: a single hour
// at a single location, carrying the location's full metadata so the
// table needs no lookups downstream.
type HourlyObservation struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`

	Time             time.Time `json:"time"` // always UTC
	TemperatureC     float64   `json:"temperatureC"`
	PrecipProbPct    float64   `json:"precipProbabilityPct"`
	PrecipMM         float64   `json:"precipMm"`
	CloudCoverPct    float64   `json:"cloudCoverPct"`
}

// Skip records a location dropped from an aggregation run when the
// skip-failed option is enabled.
type Skip struct {
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

// Result is the outcome of one aggregation run: the unified flat table,
// plus any locations skipped on failure (only populated when
// Options.SkipFailed is set).
type Result struct {
	Observations []HourlyObservation `json:"observations"`
	Skipped      []Skip              `json:"skipped,omitempty"`
}
