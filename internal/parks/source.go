// Package parks turns the configured park list into forecast locations.
// The list is a collaborator-supplied input; this package owns only its
// parsing and coordinate resolution, not where it came from.
package parks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/parkcast/parkcast/internal/forecast"
)

// Entry is one configured park. Coordinates are optional at parse time;
// entries without them must be geocoded before use.
type Entry struct {
	Name        string
	Description string
	Lat         *float64
	Lon         *float64
}

// ParseList parses a park list of the form
//
//	name|description|lat|lon;name|description|lat|lon
//
// Latitude and longitude may both be left empty for entries that will be
// geocoded later. Order is preserved.
func ParseList(raw string) ([]Entry, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var entries []Entry
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		parts := strings.Split(item, "|")
		if len(parts) != 4 {
			return nil, fmt.Errorf("park entry %q: want name|description|lat|lon", item)
		}

		e := Entry{
			Name:        strings.TrimSpace(parts[0]),
			Description: strings.TrimSpace(parts[1]),
		}
		if e.Name == "" {
			return nil, fmt.Errorf("park entry %q: name is required", item)
		}

		latStr := strings.TrimSpace(parts[2])
		lonStr := strings.TrimSpace(parts[3])
		if (latStr == "") != (lonStr == "") {
			return nil, fmt.Errorf("park entry %q: lat and lon must be given together", item)
		}
		if latStr != "" {
			lat, err := strconv.ParseFloat(latStr, 64)
			if err != nil {
				return nil, fmt.Errorf("park entry %q: invalid latitude: %w", item, err)
			}
			lon, err := strconv.ParseFloat(lonStr, 64)
			if err != nil {
				return nil, fmt.Errorf("park entry %q: invalid longitude: %w", item, err)
			}
			e.Lat = &lat
			e.Lon = &lon
		}

		entries = append(entries, e)
	}
	return entries, nil
}

// Resolve converts entries into forecast locations, geocoding any entry
// without coordinates. A nil geocoder is fine as long as every entry
// already carries coordinates.
func Resolve(entries []Entry, gc Geocoder) ([]forecast.Location, error) {
	locs := make([]forecast.Location, 0, len(entries))
	for _, e := range entries {
		lat, lon := 0.0, 0.0
		switch {
		case e.Lat != nil && e.Lon != nil:
			lat, lon = *e.Lat, *e.Lon
		case gc != nil:
			var err error
			lat, lon, err = gc.Lookup(e.Name)
			if err != nil {
				return nil, fmt.Errorf("geocoding park %q: %w", e.Name, err)
			}
		default:
			return nil, fmt.Errorf("park %q has no coordinates and no geocoder is configured", e.Name)
		}

		locs = append(locs, forecast.Location{
			Name:        e.Name,
			Description: e.Description,
			Latitude:    lat,
			Longitude:   lon,
		})
	}
	return locs, nil
}
