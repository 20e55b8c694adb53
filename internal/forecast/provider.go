package forecast

import (
	"context"
	"fmt"
	"time"
)

// HourlySeries is the field-oriented (column-major) hourly block for one
// location and one calendar day. Index i across every field describes
// the same hour.
type HourlySeries struct {
	Time          []time.Time
	TemperatureC  []float64
	PrecipProbPct []float64
	PrecipMM      []float64
	CloudCoverPct []float64
}

// Len returns the number of hourly entries in the series.
func (s HourlySeries) Len() int {
	return len(s.Time)
}

// Validate checks that the series is non-empty and that every field
// array has the same length. The transpose in rows cannot proceed
// safely otherwise.
func (s HourlySeries) Validate() error {
	n := len(s.Time)
	if n == 0 {
		return fmt.Errorf("%w: empty hourly block", ErrMalformedResponse)
	}
	for field, l := range map[string]int{
		"temperature_2m":            len(s.TemperatureC),
		"precipitation_probability": len(s.PrecipProbPct),
		"precipitation":             len(s.PrecipMM),
		"cloud_cover":               len(s.CloudCoverPct),
	} {
		if l != n {
			return fmt.Errorf("%w: field %s has %d entries, time has %d",
				ErrMalformedResponse, field, l, n)
		}
	}
	return nil
}

// rows transposes the column-major series into one HourlyObservation per
// hour, broadcasting the location's metadata onto every row. The caller
// must Validate first.
func (s HourlySeries) rows(loc Location) []HourlyObservation {
	out := make([]HourlyObservation, len(s.Time))
	for i := range s.Time {
		out[i] = HourlyObservation{
			Name:          loc.Name,
			Description:   loc.Description,
			Latitude:      loc.Latitude,
			Longitude:     loc.Longitude,
			Time:          s.Time[i],
			TemperatureC:  s.TemperatureC[i],
			PrecipProbPct: s.PrecipProbPct[i],
			PrecipMM:      s.PrecipMM[i],
			CloudCoverPct: s.CloudCoverPct[i],
		}
	}
	return out
}

// CurrentConditions is the provider's "current" block for one location.
type CurrentConditions struct {
	Time          time.Time `json:"time"`
	TemperatureC  float64   `json:"temperatureC"`
	PrecipProbPct float64   `json:"precipProbabilityPct"`
	PrecipMM      float64   `json:"precipMm"`
	CloudCoverPct float64   `json:"cloudCoverPct"`
}

// PointForecast is one provider response for one geographic point:
// current conditions plus the hourly series for the requested day.
type PointForecast struct {
	Current CurrentConditions
	Hourly  HourlySeries
}

// Provider abstracts the forecast source (e.g. Open-Meteo). One call
// covers exactly one point and one calendar day.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, lat, lon float64, day time.Time) (PointForecast, error)
}
