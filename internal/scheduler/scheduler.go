package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"

	"github.com/parkcast/parkcast/internal/forecast"
)

// Scheduler periodically refreshes the cached forecast tables for the
// configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *forecast.Service
	interval  time.Duration
	days      int // how many days ahead to keep warm, starting today
}

// New creates a Scheduler that refreshes `days` consecutive days
// starting from the current date on every tick.
func New(service *forecast.Service, interval time.Duration, days int) *Scheduler {
	if days <= 0 {
		days = 1
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		days:      days,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	if len(s.service.Locations()) == 0 {
		log.Println("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		runID := uuid.NewString()
		log.Printf("scheduler: run %s: refreshing forecast tables", runID)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		today := time.Now().UTC().Truncate(24 * time.Hour)
		for i := 0; i < s.days; i++ {
			day := today.AddDate(0, 0, i)
			if _, err := s.service.RefreshTable(ctx, day); err != nil {
				log.Printf("scheduler: run %s: refresh failed for %s: %v",
					runID, day.Format("2006-01-02"), err)
			}
		}
		log.Printf("scheduler: run %s: completed", runID)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
