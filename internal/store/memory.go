package store

import (
	"errors"
	"sync"
	"time"

	"github.com/parkcast/parkcast/internal/forecast"
)

var (
	// ErrNotFound is returned when no table is cached for a given date.
	ErrNotFound = errors.New("no forecast table for date")
)

type entry struct {
	result  forecast.Result
	savedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory cache of forecast tables,
// one per calendar date.
type MemoryStore struct {
	mu sync.RWMutex

	// key: date in 2006-01-02 form
	data map[string]entry

	// retention configuration
	maxDates int           // max number of cached dates (0 = unlimited)
	maxAge   time.Duration // max age of a cached table (0 = unlimited)
}

// NewMemoryStore creates a MemoryStore with optional limits. Values <= 0
// are treated as unlimited.
func NewMemoryStore(maxDates int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:     make(map[string]entry),
		maxDates: maxDates,
		maxAge:   maxAge,
	}
}

// SaveTable replaces the cached table for a date and enforces retention.
func (s *MemoryStore) SaveTable(day time.Time, res forecast.Result) {
	key := day.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = entry{result: res, savedAt: time.Now()}

	// Evict the earliest dates until back under the cap. Date keys sort
	// chronologically as strings.
	for s.maxDates > 0 && len(s.data) > s.maxDates {
		earliest := ""
		for k := range s.data {
			if earliest == "" || k < earliest {
				earliest = k
			}
		}
		delete(s.data, earliest)
	}
}

// GetTable returns the cached table for a date, or ErrNotFound when the
// date was never cached or its entry has aged out.
func (s *MemoryStore) GetTable(day time.Time) (forecast.Result, error) {
	key := day.Format("2006-01-02")

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return forecast.Result{}, ErrNotFound
	}
	if s.maxAge > 0 && time.Since(e.savedAt) > s.maxAge {
		return forecast.Result{}, ErrNotFound
	}
	return e.result, nil
}

var _ forecast.Store = (*MemoryStore)(nil)
