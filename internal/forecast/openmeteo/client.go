// Package openmeteo implements forecast.Provider against the Open-Meteo
// forecast API. Open-Meteo requires no API key.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/parkcast/parkcast/internal/forecast"
)

const (
	// DefaultBaseURL is the public Open-Meteo forecast endpoint.
	DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	// hourlyTimeLayout matches Open-Meteo's timestamp format.
	hourlyTimeLayout = "2006-01-02T15:04"
)

// fields requested in both the current and hourly blocks.
var fields = []string{
	"temperature_2m",
	"precipitation_probability",
	"precipitation",
	"cloud_cover",
}

// Client is a forecast.Provider backed by Open-Meteo. One Fetch issues
// exactly one request covering one geographic point and one calendar
// day; retries beyond the caller-configured budget never happen here.
type Client struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client over the shared HTTP client. An empty
// baseURL selects the public endpoint. maxRetries is the caller's retry
// budget for transient failures; 0 means a single attempt.
func NewClient(client *http.Client, baseURL string, maxRetries int) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      maxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Fetch requests the current and hourly blocks for one point, with
// start_date and end_date both set to the target day.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, day time.Time) (forecast.PointForecast, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
		values.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
		values.Set("current", strings.Join(fields, ","))
		values.Set("hourly", strings.Join(fields, ","))
		values.Set("start_date", day.Format("2006-01-02"))
		values.Set("end_date", day.Format("2006-01-02"))

		u := fmt.Sprintf("%s?%s", c.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, buildRequest)
	if err != nil {
		return forecast.PointForecast{}, fmt.Errorf("%w: %v", forecast.ErrTransport, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Current *struct {
			Time          string  `json:"time"`
			Temperature2M float64 `json:"temperature_2m"`
			PrecipProb    float64 `json:"precipitation_probability"`
			Precipitation float64 `json:"precipitation"`
			CloudCover    float64 `json:"cloud_cover"`
		} `json:"current"`
		Hourly *struct {
			Time          []string  `json:"time"`
			Temperature2M []float64 `json:"temperature_2m"`
			PrecipProb    []float64 `json:"precipitation_probability"`
			Precipitation []float64 `json:"precipitation"`
			CloudCover    []float64 `json:"cloud_cover"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return forecast.PointForecast{}, fmt.Errorf("%w: decoding body: %v", forecast.ErrMalformedResponse, err)
	}
	if payload.Hourly == nil {
		return forecast.PointForecast{}, fmt.Errorf("%w: hourly block missing", forecast.ErrMalformedResponse)
	}

	times := make([]time.Time, len(payload.Hourly.Time))
	for i, raw := range payload.Hourly.Time {
		ts, err := time.Parse(hourlyTimeLayout, raw)
		if err != nil {
			return forecast.PointForecast{}, fmt.Errorf("%w: hourly time %q: %v", forecast.ErrMalformedResponse, raw, err)
		}
		times[i] = ts.UTC()
	}

	pf := forecast.PointForecast{
		Hourly: forecast.HourlySeries{
			Time:          times,
			TemperatureC:  payload.Hourly.Temperature2M,
			PrecipProbPct: payload.Hourly.PrecipProb,
			PrecipMM:      payload.Hourly.Precipitation,
			CloudCoverPct: payload.Hourly.CloudCover,
		},
	}

	if payload.Current != nil {
		ts, err := time.Parse(hourlyTimeLayout, payload.Current.Time)
		if err != nil {
			ts = time.Now()
		}
		pf.Current = forecast.CurrentConditions{
			Time:          ts.UTC(),
			TemperatureC:  payload.Current.Temperature2M,
			PrecipProbPct: payload.Current.PrecipProb,
			PrecipMM:      payload.Current.Precipitation,
			CloudCoverPct: payload.Current.CloudCover,
		}
	}

	return pf, nil
}

var _ forecast.Provider = (*Client)(nil)
