package parks

import (
	"fmt"

	"github.com/kelvins/geocoder"
)

// Geocoder resolves a park name to coordinates.
type Geocoder interface {
	Lookup(name string) (lat, lon float64, err error)
}

// GoogleGeocoder resolves park names through the Google geocoding API
// via kelvins/geocoder. It requires an API key.
type GoogleGeocoder struct{}

// NewGoogleGeocoder configures the underlying geocoder with the given
// API key and returns a ready Geocoder.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{}
}

// Lookup geocodes the park by name.
func (g *GoogleGeocoder) Lookup(name string) (float64, float64, error) {
	loc, err := geocoder.Geocoding(geocoder.Address{Street: name})
	if err != nil {
		return 0, 0, fmt.Errorf("geocoding %q: %w", name, err)
	}
	return loc.Latitude, loc.Longitude, nil
}

var _ Geocoder = (*GoogleGeocoder)(nil)
