package scheduler

import (
	"context"
	"laundry_manager/internal/services"
	"log"
	"sync"
	"time"
)

// AgingScheduler runs the unretrieved ticket scan once a day.
type AgingScheduler struct {
	agingService services.AgingService
	loc          *time.Location
	runHour      int
	scanTimeout  time.Duration

	// ctx is canceled by Stop, aborting a scan in flight.
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	timer   *time.Timer
	ticker  *time.Ticker
	stopped bool
}

// NewAgingScheduler schedules the daily scan at runHour in loc. An hour
// outside 0-23 falls back to 10.
func NewAgingScheduler(agingService services.AgingService, loc *time.Location, runHour int) *AgingScheduler {
	if loc == nil {
		loc = time.UTC
	}
	if runHour < 0 || runHour > 23 {
		runHour = 10
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AgingScheduler{
		agingService: agingService,
		loc:          loc,
		runHour:      runHour,
		scanTimeout:  10 * time.Minute,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// NextRun returns the first scheduled run strictly after now.
func (s *AgingScheduler) NextRun(now time.Time) time.Time {
	now = now.In(s.loc)
	next := time.Date(now.Year(), now.Month(), now.Day(), s.runHour, 0, 0, 0, s.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s *AgingScheduler) Start() {
	nextRun := s.NextRun(time.Now())
	log.Printf("Aging scheduler started, next run at %s", nextRun.Format("2006-01-02 15:04:05"))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer = time.AfterFunc(time.Until(nextRun), func() {
		s.RunOnce()

		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.ticker = time.NewTicker(24 * time.Hour)
		ticker := s.ticker
		s.mu.Unlock()

		for {
			select {
			case <-ticker.C:
				s.RunOnce()
			case <-s.ctx.Done():
				return
			}
		}
	})
}

func (s *AgingScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancel()
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.ticker != nil {
		s.ticker.Stop()
	}
	log.Println("Aging scheduler stopped")
}

// RunOnce performs a single scan and logs its outcome.
func (s *AgingScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(s.ctx, s.scanTimeout)
	defer cancel()

	log.Println("Running aging scan...")
	result, err := s.agingService.Scan(ctx)
	if err != nil {
		log.Printf("Aging scan failed: %v", err)
		return
	}
	log.Printf("Aging scan done: notified=%d skipped=%d failed=%d", result.Notified, result.Skipped, result.Failed)
}
