package services

import (
	"context"
	"encoding/json"
	"errors"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/redis"
	"regexp"
	"time"
)

const maxPreferenceSize = 4096

var preferenceKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

type PreferenceStore interface {
	SetPreference(ctx context.Context, userID, key string, value json.RawMessage, ttl time.Duration) error
	GetPreference(ctx context.Context, userID, key string) (json.RawMessage, error)
	DeletePreference(ctx context.Context, userID, key string) error
}

type PreferenceService interface {
	Get(ctx context.Context, userID, key string) (json.RawMessage, error)
	Set(ctx context.Context, userID, key string, value json.RawMessage) error
	Delete(ctx context.Context, userID, key string) error
}

type preferenceService struct {
	store PreferenceStore
	ttl   time.Duration
}

func NewPreferenceService(store PreferenceStore, ttl time.Duration) PreferenceService {
	return &preferenceService{store: store, ttl: ttl}
}

func validPreferenceKey(op, key string) error {
	if !preferenceKeyPattern.MatchString(key) {
		return apperr.Validation(op, "invalid preference key")
	}
	return nil
}

func (s *preferenceService) Get(ctx context.Context, userID, key string) (json.RawMessage, error) {
	if err := validPreferenceKey("preferences.get", key); err != nil {
		return nil, err
	}
	value, err := s.store.GetPreference(ctx, userID, key)
	if errors.Is(err, redis.ErrCacheMiss) {
		return nil, apperr.NotFound("preferences.get", "preference not found")
	}
	if err != nil {
		return nil, apperr.Transient("preferences.get", err)
	}
	return value, nil
}

func (s *preferenceService) Set(ctx context.Context, userID, key string, value json.RawMessage) error {
	if err := validPreferenceKey("preferences.set", key); err != nil {
		return err
	}
	if len(value) == 0 || len(value) > maxPreferenceSize || !json.Valid(value) {
		return apperr.Validation("preferences.set", "value must be JSON of at most 4KB")
	}
	return apperr.Transient("preferences.set", s.store.SetPreference(ctx, userID, key, value, s.ttl))
}

func (s *preferenceService) Delete(ctx context.Context, userID, key string) error {
	if err := validPreferenceKey("preferences.delete", key); err != nil {
		return err
	}
	return apperr.Transient("preferences.delete", s.store.DeletePreference(ctx, userID, key))
}
