package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/parkcast/parkcast/internal/forecast"
	"github.com/parkcast/parkcast/internal/parks"
)

// defaultParks is the sample park list used when PARKS is not set.
const defaultParks = "Acadia|Coastal Maine park|44.35|-68.21;" +
	"Yellowstone|Geysers and wildlife|44.60|-110.50;" +
	"Zion|Desert canyons|37.30|-113.05"

type AppConfig struct {
	// Parks to fetch forecasts for, in order.
	Parks []forecast.Location

	// ForecastBaseURL overrides the Open-Meteo endpoint (mainly for tests).
	ForecastBaseURL string

	// MaxRetries is the transport-layer retry budget for provider calls.
	MaxRetries int

	// HTTPTimeout bounds each outbound provider request.
	HTTPTimeout time.Duration

	// FetchInterval controls how often the scheduler refreshes tables.
	FetchInterval time.Duration

	// RefreshDays is how many days ahead the scheduler keeps warm.
	RefreshDays int

	// Aggregation policy.
	SkipFailed  bool
	Concurrency int

	// Table cache retention.
	StoreMaxDates int
	StoreMaxAge   time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.ForecastBaseURL = os.Getenv("FORECAST_BASE_URL")
	cfg.MaxRetries = getenvInt("FORECAST_MAX_RETRIES", 0)

	timeout, err := getenvDuration("HTTP_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	interval, err := getenvDuration("FETCH_INTERVAL", "1h")
	if err != nil {
		return nil, err
	}
	cfg.FetchInterval = interval
	cfg.RefreshDays = getenvInt("REFRESH_DAYS", 2)

	cfg.SkipFailed = getenvBool("AGGREGATOR_SKIP_FAILED", false)
	cfg.Concurrency = getenvInt("AGGREGATOR_CONCURRENCY", 1)

	cfg.StoreMaxDates = getenvInt("STORE_MAX_DATES", 14)
	maxAge, err := getenvDuration("STORE_MAX_AGE", "24h")
	if err != nil {
		return nil, err
	}
	cfg.StoreMaxAge = maxAge

	cfg.Port = getenvDefault("PORT", "8080")

	locs, err := loadParks()
	if err != nil {
		return nil, err
	}
	cfg.Parks = locs

	return cfg, nil
}

func loadParks() ([]forecast.Location, error) {
	entries, err := parks.ParseList(getenvDefault("PARKS", defaultParks))
	if err != nil {
		return nil, fmt.Errorf("invalid PARKS: %w", err)
	}

	var gc parks.Geocoder
	if key := os.Getenv("GEOCODER_API_KEY"); key != "" {
		gc = parks.NewGoogleGeocoder(key)
	}

	return parks.Resolve(entries, gc)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
