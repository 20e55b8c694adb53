package forecast

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Store is the contract the in-memory table cache (and any future
// persistent store) must satisfy. Tables are keyed by calendar date.
type Store interface {
	SaveTable(day time.Time, res Result)
	GetTable(day time.Time) (Result, error)
}

// Service orchestrates the aggregator and the table cache for the
// configured set of locations.
type Service struct {
	store     Store
	agg       *Aggregator
	provider  Provider
	locations []Location
}

// NewService creates a Service over the given store and provider for a
// fixed, ordered location list.
func NewService(store Store, provider Provider, locations []Location, opts Options) *Service {
	return &Service{
		store:     store,
		agg:       NewAggregator(provider, opts),
		provider:  provider,
		locations: locations,
	}
}

// Locations returns the configured location list, in order.
func (s *Service) Locations() []Location {
	return s.locations
}

// HourlyTable returns the flat hourly table for the given day, serving
// from the cache when possible and aggregating live otherwise. A
// non-empty filter keeps only rows for the named locations; filtering
// happens after retrieval so the cache always holds the full table.
func (s *Service) HourlyTable(ctx context.Context, day time.Time, filter []string) (*Result, error) {
	res, err := s.store.GetTable(day)
	if err != nil {
		fetched, err := s.RefreshTable(ctx, day)
		if err != nil {
			return nil, err
		}
		res = *fetched
	}

	if len(filter) == 0 {
		return &res, nil
	}

	keep := make(map[string]bool, len(filter))
	for _, name := range filter {
		keep[name] = true
	}

	filtered := Result{Skipped: res.Skipped}
	for _, o := range res.Observations {
		if keep[o.Name] {
			filtered.Observations = append(filtered.Observations, o)
		}
	}
	if len(filtered.Observations) == 0 {
		return nil, fmt.Errorf("%w: no configured location matches filter %v", ErrInvalidInput, filter)
	}
	return &filtered, nil
}

// DailySummaries returns per-location daily digests derived from the
// same hourly table HourlyTable serves.
func (s *Service) DailySummaries(ctx context.Context, day time.Time, filter []string) ([]DailySummary, error) {
	res, err := s.HourlyTable(ctx, day, filter)
	if err != nil {
		return nil, err
	}
	return SummarizeDaily(res.Observations), nil
}

// Current fetches live current conditions for one configured location.
func (s *Service) Current(ctx context.Context, name string) (CurrentConditions, error) {
	for _, loc := range s.locations {
		if loc.Name != name {
			continue
		}
		pf, err := s.provider.Fetch(ctx, loc.Latitude, loc.Longitude, time.Now().UTC())
		if err != nil {
			return CurrentConditions{}, fmt.Errorf("location %q: %w", name, err)
		}
		return pf.Current, nil
	}
	return CurrentConditions{}, fmt.Errorf("%w: unknown location %q", ErrInvalidInput, name)
}

// RefreshTable aggregates the full configured location list for the
// given day and replaces the cached table.
func (s *Service) RefreshTable(ctx context.Context, day time.Time) (*Result, error) {
	res, err := s.agg.Aggregate(ctx, s.locations, day)
	if err != nil {
		return nil, err
	}
	s.store.SaveTable(day, *res)
	log.Printf("INFO: refreshed forecast table for %s: %d rows, %d skipped",
		day.Format("2006-01-02"), len(res.Observations), len(res.Skipped))
	return res, nil
}
