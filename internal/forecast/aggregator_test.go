package forecast

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider serves canned series keyed by latitude, which is enough
// to tell test locations apart.
type stubProvider struct {
	series map[float64]HourlySeries
	errs   map[float64]error
	calls  int32
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Fetch(ctx context.Context, lat, lon float64, day time.Time) (PointForecast, error) {
	atomic.AddInt32(&p.calls, 1)
	if err, ok := p.errs[lat]; ok {
		return PointForecast{}, err
	}
	s, ok := p.series[lat]
	if !ok {
		return PointForecast{}, fmt.Errorf("%w: no canned series for lat %v", ErrTransport, lat)
	}
	return PointForecast{Hourly: s}, nil
}

func hoursFor(day time.Time, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = day.Add(time.Duration(i) * time.Hour)
	}
	return out
}

// seriesOf builds an n-hour series whose temperature starts at base and
// increases by one per hour, so index alignment is checkable.
func seriesOf(day time.Time, n int, base float64) HourlySeries {
	s := HourlySeries{
		Time:          hoursFor(day, n),
		TemperatureC:  make([]float64, n),
		PrecipProbPct: make([]float64, n),
		PrecipMM:      make([]float64, n),
		CloudCoverPct: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		s.TemperatureC[i] = base + float64(i)
		s.PrecipProbPct[i] = float64(i * 10)
		s.PrecipMM[i] = float64(i)
		s.CloudCoverPct[i] = float64(100 - i)
	}
	return s
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return day
}

func TestAggregateEndToEnd(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	acadia := Location{Name: "Acadia", Description: "Coastal park", Latitude: 44.35, Longitude: -68.21}

	provider := &stubProvider{series: map[float64]HourlySeries{
		44.35: seriesOf(day, 24, 5),
	}}
	agg := NewAggregator(provider, Options{})

	res, err := agg.Aggregate(context.Background(), []Location{acadia}, day)
	require.NoError(t, err)
	require.Len(t, res.Observations, 24)

	for i, o := range res.Observations {
		assert.Equal(t, "Acadia", o.Name)
		assert.Equal(t, "Coastal park", o.Description)
		assert.Equal(t, 44.35, o.Latitude)
		assert.Equal(t, -68.21, o.Longitude)
		assert.Equal(t, day.Add(time.Duration(i)*time.Hour), o.Time)
	}
	assert.Equal(t, day, res.Observations[0].Time)
	assert.Equal(t, day.Add(23*time.Hour), res.Observations[23].Time)
}

func TestAggregateIndexAlignment(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	loc := Location{Name: "A", Latitude: 1, Longitude: 1}

	provider := &stubProvider{series: map[float64]HourlySeries{
		1: {
			Time:          hoursFor(day, 2),
			TemperatureC:  []float64{5, 7},
			PrecipProbPct: []float64{10, 20},
			PrecipMM:      []float64{0, 1},
			CloudCoverPct: []float64{50, 60},
		},
	}}
	agg := NewAggregator(provider, Options{})

	res, err := agg.Aggregate(context.Background(), []Location{loc}, day)
	require.NoError(t, err)
	require.Len(t, res.Observations, 2)

	assert.Equal(t, 5.0, res.Observations[0].TemperatureC)
	assert.Equal(t, 0.0, res.Observations[0].PrecipMM)
	assert.Equal(t, 7.0, res.Observations[1].TemperatureC)
	assert.Equal(t, 1.0, res.Observations[1].PrecipMM)
}

func TestAggregateOrderPreserved(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	locs := []Location{
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "B", Latitude: 2, Longitude: 2},
		{Name: "C", Latitude: 3, Longitude: 3},
	}
	provider := &stubProvider{series: map[float64]HourlySeries{
		1: seriesOf(day, 2, 0),
		2: seriesOf(day, 3, 10),
		3: seriesOf(day, 2, 20),
	}}

	for _, conc := range []int{1, 4} {
		agg := NewAggregator(provider, Options{Concurrency: conc})

		res, err := agg.Aggregate(context.Background(), locs, day)
		require.NoError(t, err)
		require.Len(t, res.Observations, 7)

		var names []string
		for _, o := range res.Observations {
			names = append(names, o.Name)
		}
		assert.Equal(t, []string{"A", "A", "B", "B", "B", "C", "C"}, names,
			"concurrency=%d", conc)
	}
}

func TestAggregateMalformedLengths(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	loc := Location{Name: "A", Latitude: 1, Longitude: 1}

	provider := &stubProvider{series: map[float64]HourlySeries{
		1: {
			Time:          hoursFor(day, 2),
			TemperatureC:  []float64{5, 7, 9}, // one extra entry
			PrecipProbPct: []float64{10, 20},
			PrecipMM:      []float64{0, 1},
			CloudCoverPct: []float64{50, 60},
		},
	}}
	agg := NewAggregator(provider, Options{})

	_, err := agg.Aggregate(context.Background(), []Location{loc}, day)
	require.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), `"A"`)
}

func TestAggregateSingleFailureAbortsAll(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	locs := []Location{
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "B", Latitude: 2, Longitude: 2},
	}
	provider := &stubProvider{
		series: map[float64]HourlySeries{1: seriesOf(day, 24, 0)},
		errs:   map[float64]error{2: fmt.Errorf("%w: connection refused", ErrTransport)},
	}
	agg := NewAggregator(provider, Options{})

	res, err := agg.Aggregate(context.Background(), locs, day)
	require.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), `"B"`)
	assert.Nil(t, res, "no partial rows on abort")
}

func TestAggregateSkipFailed(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	locs := []Location{
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "B", Latitude: 2, Longitude: 2},
		{Name: "C", Latitude: 3, Longitude: 3},
	}
	provider := &stubProvider{
		series: map[float64]HourlySeries{
			1: seriesOf(day, 2, 0),
			3: seriesOf(day, 2, 0),
		},
		errs: map[float64]error{2: fmt.Errorf("%w: 503", ErrTransport)},
	}
	agg := NewAggregator(provider, Options{SkipFailed: true})

	res, err := agg.Aggregate(context.Background(), locs, day)
	require.NoError(t, err)
	require.Len(t, res.Observations, 4)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "B", res.Skipped[0].Location)

	var names []string
	for _, o := range res.Observations {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"A", "A", "C", "C"}, names)
}

func TestAggregateInvalidInput(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	provider := &stubProvider{}
	agg := NewAggregator(provider, Options{})

	cases := []struct {
		name string
		locs []Location
		day  time.Time
	}{
		{"latitude out of range", []Location{{Name: "A", Latitude: 91, Longitude: 0}}, day},
		{"longitude out of range", []Location{{Name: "A", Latitude: 0, Longitude: -181}}, day},
		{"missing name", []Location{{Latitude: 0, Longitude: 0}}, day},
		{"zero date", []Location{{Name: "A", Latitude: 0, Longitude: 0}}, time.Time{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := agg.Aggregate(context.Background(), tc.locs, tc.day)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, atomic.LoadInt32(&provider.calls), "no provider call on invalid input")
		})
	}
}
