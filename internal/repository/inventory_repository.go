package repository

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	List(ctx context.Context) ([]models.InventoryItem, error)
	Adjust(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error)
	ListLow(ctx context.Context) ([]models.InventoryItem, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	return translate("inventory.create", "inventory item", r.db.WithContext(ctx).Create(item).Error)
}

func (r *inventoryRepository) List(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, translate("inventory.list", "inventory item", err)
}

func (r *inventoryRepository) Adjust(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	res := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, translate("inventory.adjust", "inventory item", res.Error)
	}
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate("inventory.adjust", "inventory item", err)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Validation("inventory.adjust", "insufficient stock")
	}
	return &item, nil
}

func (r *inventoryRepository) ListLow(ctx context.Context) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).Where("quantity <= min_quantity").Order("name ASC").Find(&items).Error
	return items, translate("inventory.list_low", "inventory item", err)
}
