package services

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"strings"

	"github.com/google/uuid"
)

type InventoryService interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	// AdjustStock adds delta (negative to consume); stock never drops below zero.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error)
	LowStock(ctx context.Context) ([]models.InventoryItem, error)
}

type inventoryService struct {
	inventoryRepo repository.InventoryRepository
}

func NewInventoryService(inventoryRepo repository.InventoryRepository) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

func (s *inventoryService) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return apperr.Validation("inventory.create", "name is required")
	}
	if item.Quantity < 0 || item.MinQuantity < 0 {
		return apperr.Validation("inventory.create", "quantities cannot be negative")
	}
	return s.inventoryRepo.Create(ctx, item)
}

func (s *inventoryService) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	return s.inventoryRepo.List(ctx)
}

func (s *inventoryService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	if delta == 0 {
		return nil, apperr.Validation("inventory.adjust", "delta cannot be zero")
	}
	return s.inventoryRepo.Adjust(ctx, id, delta)
}

func (s *inventoryService) LowStock(ctx context.Context) ([]models.InventoryItem, error) {
	return s.inventoryRepo.ListLow(ctx)
}
