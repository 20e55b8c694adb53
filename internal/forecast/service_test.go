package forecast

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is a minimal in-test Store keyed by date string.
type fakeStore struct {
	tables map[string]Result
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string]Result)}
}

func (s *fakeStore) SaveTable(day time.Time, res Result) {
	s.tables[day.Format("2006-01-02")] = res
}

func (s *fakeStore) GetTable(day time.Time) (Result, error) {
	res, ok := s.tables[day.Format("2006-01-02")]
	if !ok {
		return Result{}, errors.New("not cached")
	}
	return res, nil
}

func TestServiceHourlyTableCaches(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	locs := []Location{
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "B", Latitude: 2, Longitude: 2},
	}
	provider := &stubProvider{series: map[float64]HourlySeries{
		1: seriesOf(day, 24, 0),
		2: seriesOf(day, 24, 10),
	}}

	svc := NewService(newFakeStore(), provider, locs, Options{})

	res, err := svc.HourlyTable(context.Background(), day, nil)
	require.NoError(t, err)
	assert.Len(t, res.Observations, 48)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))

	// Second read serves from the cache.
	res, err = svc.HourlyTable(context.Background(), day, nil)
	require.NoError(t, err)
	assert.Len(t, res.Observations, 48)
	assert.Equal(t, int32(2), atomic.LoadInt32(&provider.calls))
}

func TestServiceHourlyTableFilter(t *testing.T) {
	day := mustDate(t, "2024-05-24")
	locs := []Location{
		{Name: "A", Latitude: 1, Longitude: 1},
		{Name: "B", Latitude: 2, Longitude: 2},
	}
	provider := &stubProvider{series: map[float64]HourlySeries{
		1: seriesOf(day, 3, 0),
		2: seriesOf(day, 3, 10),
	}}

	svc := NewService(newFakeStore(), provider, locs, Options{})

	res, err := svc.HourlyTable(context.Background(), day, []string{"B"})
	require.NoError(t, err)
	require.Len(t, res.Observations, 3)
	for _, o := range res.Observations {
		assert.Equal(t, "B", o.Name)
	}

	_, err = svc.HourlyTable(context.Background(), day, []string{"Nowhere"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestServiceCurrentUnknownLocation(t *testing.T) {
	svc := NewService(newFakeStore(), &stubProvider{}, []Location{
		{Name: "A", Latitude: 1, Longitude: 1},
	}, Options{})

	_, err := svc.Current(context.Background(), "Nowhere")
	require.ErrorIs(t, err, ErrInvalidInput)
}
