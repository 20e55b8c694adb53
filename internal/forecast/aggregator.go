package forecast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Options control failure policy and fan-out for an aggregation run.
type Options struct {
	// SkipFailed continues past locations whose fetch fails and reports
	// them in Result.Skipped. The default (false) aborts the whole run
	// on the first failing location.
	SkipFailed bool

	// Concurrency bounds the number of in-flight provider requests.
	// Values <= 1 fetch sequentially. Output order is by input order
	// either way.
	Concurrency int
}

// Aggregator turns an ordered list of locations and a target date into
// one flat table of hourly observations.
type Aggregator struct {
	provider Provider
	opts     Options
}

// NewAggregator creates an Aggregator over the given provider.
func NewAggregator(provider Provider, opts Options) *Aggregator {
	return &Aggregator{
		provider: provider,
		opts:     opts,
	}
}

// Aggregate fetches one day of hourly forecast per location, flattens
// each location's series into rows tagged with its metadata, and
// concatenates the per-location row sets in input order.
//
// Any location's failure aborts the whole run unless Options.SkipFailed
// is set, in which case failed locations appear in Result.Skipped and
// contribute no rows.
func (a *Aggregator) Aggregate(ctx context.Context, locs []Location, day time.Time) (*Result, error) {
	if err := validateInputs(locs, day); err != nil {
		return nil, err
	}

	series := make([]HourlySeries, len(locs))
	errs := make([]error, len(locs))

	if a.opts.Concurrency > 1 {
		a.fetchConcurrent(ctx, locs, day, series, errs)
	} else {
		for i, loc := range locs {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			series[i], errs[i] = a.fetchOne(ctx, loc, day)
		}
	}

	res := &Result{}
	for i, loc := range locs {
		if errs[i] != nil {
			if a.opts.SkipFailed {
				res.Skipped = append(res.Skipped, Skip{
					Location: loc.Name,
					Reason:   errs[i].Error(),
				})
				continue
			}
			return nil, fmt.Errorf("location %q: %w", loc.Name, errs[i])
		}
		res.Observations = append(res.Observations, series[i].rows(loc)...)
	}
	return res, nil
}

// fetchOne performs and validates a single provider call.
func (a *Aggregator) fetchOne(ctx context.Context, loc Location, day time.Time) (HourlySeries, error) {
	pf, err := a.provider.Fetch(ctx, loc.Latitude, loc.Longitude, day)
	if err != nil {
		return HourlySeries{}, err
	}
	if err := pf.Hourly.Validate(); err != nil {
		return HourlySeries{}, err
	}
	return pf.Hourly, nil
}

// fetchConcurrent fans the per-location requests out over a bounded
// worker set. Results land in their input-index slot, so the caller's
// concatenation order never depends on completion order.
func (a *Aggregator) fetchConcurrent(ctx context.Context, locs []Location, day time.Time, series []HourlySeries, errs []error) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, a.opts.Concurrency)

	for i, loc := range locs {
		i, loc := i, loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			series[i], errs[i] = a.fetchOne(ctx, loc, day)
		}()
	}
	wg.Wait()
}

func validateInputs(locs []Location, day time.Time) error {
	if day.IsZero() {
		return fmt.Errorf("%w: target date is not set", ErrInvalidInput)
	}
	for _, loc := range locs {
		if err := validate.Struct(loc); err != nil {
			return fmt.Errorf("%w: location %q: %v", ErrInvalidInput, loc.Name, err)
		}
	}
	return nil
}
