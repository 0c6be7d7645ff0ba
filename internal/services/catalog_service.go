package services

import (
	"context"
	"fmt"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"strings"

	"github.com/google/uuid"
)

type CatalogService interface {
	CreateService(ctx context.Context, name string, kind models.ServiceKind, price int64) (*models.Service, error)
	ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error)
	// UpdateService changes the price list entry. Existing tickets keep the
	// price they were created with.
	UpdateService(ctx context.Context, id uuid.UUID, name string, price int64, isActive bool) (*models.Service, error)
}

type catalogService struct {
	serviceRepo repository.ServiceRepository
}

func NewCatalogService(serviceRepo repository.ServiceRepository) CatalogService {
	return &catalogService{serviceRepo: serviceRepo}
}

func (s *catalogService) CreateService(ctx context.Context, name string, kind models.ServiceKind, price int64) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("services.create", "name is required")
	}
	if !kind.Valid() {
		return nil, apperr.Validation("services.create", fmt.Sprintf("unknown service kind %q", kind))
	}
	if price < 0 {
		return nil, apperr.Validation("services.create", "price cannot be negative")
	}
	svc := &models.Service{Name: name, Kind: kind, Price: price, IsActive: true}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *catalogService) ListServices(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	return s.serviceRepo.List(ctx, activeOnly)
}

func (s *catalogService) UpdateService(ctx context.Context, id uuid.UUID, name string, price int64, isActive bool) (*models.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("services.update", "name is required")
	}
	if price < 0 {
		return nil, apperr.Validation("services.update", "price cannot be negative")
	}
	found, err := s.serviceRepo.GetByIDs(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	svc, ok := found[id]
	if !ok {
		return nil, apperr.NotFound("services.update", "service not found")
	}
	svc.Name = name
	svc.Price = price
	svc.IsActive = isActive
	if err := s.serviceRepo.Update(ctx, &svc); err != nil {
		return nil, err
	}
	return &svc, nil
}
