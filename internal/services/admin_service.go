package services

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"log"
)

// counters that exist in the schema; anything else would only create rows
// nothing reads.
var knownCounters = map[string]bool{
	models.TicketCounter: true,
}

type CacheAdmin interface {
	ClearReports(ctx context.Context) (int64, error)
	ClearPreferences(ctx context.Context) (int64, error)
}

type CacheClearResult struct {
	Reports     int64 `json:"reports"`
	Preferences int64 `json:"preferences"`
}

type AdminService interface {
	ClearCache(ctx context.Context, includePreferences bool) (*CacheClearResult, error)
	ResetCounter(ctx context.Context, name string, value int64) error
	CounterValue(ctx context.Context, name string) (int64, error)
}

type adminService struct {
	cache       CacheAdmin
	counterRepo repository.CounterRepository
}

func NewAdminService(cache CacheAdmin, counterRepo repository.CounterRepository) AdminService {
	return &adminService{cache: cache, counterRepo: counterRepo}
}

func (s *adminService) ClearCache(ctx context.Context, includePreferences bool) (*CacheClearResult, error) {
	result := &CacheClearResult{}
	n, err := s.cache.ClearReports(ctx)
	if err != nil {
		return nil, apperr.Transient("admin.clear_cache", err)
	}
	result.Reports = n
	if includePreferences {
		n, err = s.cache.ClearPreferences(ctx)
		if err != nil {
			return nil, apperr.Transient("admin.clear_cache", err)
		}
		result.Preferences = n
	}
	log.Printf("Cache cleared: reports=%d preferences=%d", result.Reports, result.Preferences)
	return result, nil
}

// ResetCounter sets the counter so the next drawn value is value+1.
func (s *adminService) ResetCounter(ctx context.Context, name string, value int64) error {
	if !knownCounters[name] {
		return apperr.Validation("admin.reset_counter", "unknown counter "+name)
	}
	if value < 0 {
		return apperr.Validation("admin.reset_counter", "value cannot be negative")
	}
	if err := s.counterRepo.Reset(ctx, name, value); err != nil {
		return err
	}
	log.Printf("Counter %s reset to %d", name, value)
	return nil
}

func (s *adminService) CounterValue(ctx context.Context, name string) (int64, error) {
	if !knownCounters[name] {
		return 0, apperr.Validation("admin.counter_value", "unknown counter "+name)
	}
	return s.counterRepo.Get(ctx, name)
}
