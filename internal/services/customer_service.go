package services

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"laundry_manager/pkg/whatsapp"
	"strings"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, name, phone string) (*models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByPhone(ctx context.Context, phone string) (*models.Customer, error)
	// ResolveCustomer returns the customer owning phone, creating it when
	// the number is unknown.
	ResolveCustomer(ctx context.Context, name, phone string) (*models.Customer, error)
	SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*models.Customer, error)
	NormalizePhone(phone string) string
}

type customerService struct {
	customerRepo  repository.CustomerRepository
	countryPrefix string
}

func NewCustomerService(customerRepo repository.CustomerRepository, countryPrefix string) CustomerService {
	return &customerService{customerRepo: customerRepo, countryPrefix: countryPrefix}
}

func (s *customerService) NormalizePhone(phone string) string {
	return whatsapp.NormalizePhone(phone, s.countryPrefix)
}

func (s *customerService) CreateCustomer(ctx context.Context, name, phone string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("customers.create", "name is required")
	}
	normalized := s.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperr.Validation("customers.create", "phone number is required")
	}
	customer := &models.Customer{Name: name, PhoneNumber: normalized}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return s.customerRepo.GetByID(ctx, id)
}

func (s *customerService) FindByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	normalized := s.NormalizePhone(phone)
	if normalized == "" {
		return nil, apperr.Validation("customers.find", "phone number is required")
	}
	return s.customerRepo.GetByPhone(ctx, normalized)
}

func (s *customerService) ResolveCustomer(ctx context.Context, name, phone string) (*models.Customer, error) {
	customer, err := s.FindByPhone(ctx, phone)
	if err == nil {
		return customer, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}
	customer, err = s.CreateCustomer(ctx, name, phone)
	if apperr.IsConflict(err) {
		// created concurrently by another request
		return s.FindByPhone(ctx, phone)
	}
	return customer, err
}

func (s *customerService) SearchCustomers(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.customerRepo.Search(ctx, strings.TrimSpace(query), limit)
}

func (s *customerService) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	normalized := s.NormalizePhone(phone)
	if name == "" || normalized == "" {
		return nil, apperr.Validation("customers.update", "name and phone number are required")
	}
	return s.customerRepo.UpdateProfile(ctx, id, name, normalized)
}
