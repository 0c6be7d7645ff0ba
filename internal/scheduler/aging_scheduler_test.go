package scheduler

import (
	"context"
	"errors"
	"laundry_manager/internal/models"
	"laundry_manager/internal/services"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeAgingService struct {
	scans int
	err   error
	// started, when set, makes Scan block until its context ends.
	started chan struct{}
}

func (f *fakeAgingService) Report(ctx context.Context) (*services.AgingReport, error) {
	return &services.AgingReport{}, nil
}

func (f *fakeAgingService) Scan(ctx context.Context) (*services.AgingScanResult, error) {
	f.scans++
	if f.started != nil {
		close(f.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &services.AgingScanResult{Notified: 1}, nil
}

func (f *fakeAgingService) Notices(ctx context.Context, ticketID uuid.UUID) ([]models.AgingNotice, error) {
	return nil, nil
}

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	s := NewAgingScheduler(&fakeAgingService{}, loc, 10)

	before := time.Date(2024, 6, 1, 8, 0, 0, 0, loc)
	if got := s.NextRun(before); !got.Equal(time.Date(2024, 6, 1, 10, 0, 0, 0, loc)) {
		t.Fatalf("before run hour: %v", got)
	}
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, loc)
	if got := s.NextRun(at); !got.Equal(time.Date(2024, 6, 2, 10, 0, 0, 0, loc)) {
		t.Fatalf("at run hour: %v", got)
	}
	if got := s.NextRun(time.Date(2024, 6, 30, 23, 0, 0, 0, loc)); !got.Equal(time.Date(2024, 7, 1, 10, 0, 0, 0, loc)) {
		t.Fatalf("month rollover: %v", got)
	}
}

func TestNewAgingSchedulerDefaults(t *testing.T) {
	s := NewAgingScheduler(&fakeAgingService{}, nil, 42)
	if s.runHour != 10 || s.loc != time.UTC {
		t.Fatalf("runHour=%d loc=%v", s.runHour, s.loc)
	}
}

func TestRunOnce(t *testing.T) {
	svc := &fakeAgingService{}
	s := NewAgingScheduler(svc, time.UTC, 10)
	s.RunOnce()
	svc.err = errors.New("db down")
	s.RunOnce()
	if svc.scans != 2 {
		t.Fatalf("scans=%d", svc.scans)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := NewAgingScheduler(&fakeAgingService{}, time.UTC, 10)
	s.Start()
	s.Stop()
	s.Stop()
}

func TestStopCancelsRunningScan(t *testing.T) {
	svc := &fakeAgingService{started: make(chan struct{})}
	s := NewAgingScheduler(svc, time.UTC, 10)

	finished := make(chan struct{})
	go func() {
		s.RunOnce()
		close(finished)
	}()
	<-svc.started
	s.Stop()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("scan kept running after Stop")
	}
}
