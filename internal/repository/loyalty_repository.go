package repository

import (
	"context"
	"laundry_manager/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LoyaltyRepository interface {
	Record(ctx context.Context, entry *models.LoyaltyEntry) (*models.Customer, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.LoyaltyEntry, error)
}

type loyaltyRepository struct {
	db *gorm.DB
}

func NewLoyaltyRepository(db *gorm.DB) LoyaltyRepository {
	return &loyaltyRepository{db: db}
}

// Record writes the ledger entry and the matching counter change together.
func (r *loyaltyRepository) Record(ctx context.Context, entry *models.LoyaltyEntry) (*models.Customer, error) {
	var customer *models.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		var err error
		customer, err = applyDelta(tx, entry.CustomerID, entry.Delta(), time.Now())
		return err
	})
	if err != nil {
		return nil, translate("loyalty.record", "loyalty entry", err)
	}
	return customer, nil
}

func (r *loyaltyRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.LoyaltyEntry, error) {
	var entries []models.LoyaltyEntry
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, translate("loyalty.list", "loyalty entry", err)
}
