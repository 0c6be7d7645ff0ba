package repository

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	Search(ctx context.Context, query string, limit int) ([]models.Customer, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*models.Customer, error)
	ApplyDelta(ctx context.Context, id uuid.UUID, delta models.CustomerDelta) (*models.Customer, error)
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return translate("customers.create", "customer", r.db.WithContext(ctx).Create(customer).Error)
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, translate("customers.get", "customer", err)
	}
	return &customer, nil
}

func (r *customerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&customer).Error
	if err != nil {
		return nil, translate("customers.get_by_phone", "customer", err)
	}
	return &customer, nil
}

func (r *customerRepository) Search(ctx context.Context, query string, limit int) ([]models.Customer, error) {
	var customers []models.Customer
	q := r.db.WithContext(ctx).Order("name ASC").Limit(limit)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name ILIKE ? OR phone_number LIKE ?", like, like)
	}
	err := q.Find(&customers).Error
	return customers, translate("customers.search", "customer", err)
}

func (r *customerRepository) UpdateProfile(ctx context.Context, id uuid.UUID, name, phone string) (*models.Customer, error) {
	res := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(map[string]interface{}{
		"name":         name,
		"phone_number": phone,
		"updated_at":   time.Now(),
	})
	if res.Error != nil {
		return nil, translate("customers.update", "customer", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("customers.update", "customer not found")
	}
	return r.GetByID(ctx, id)
}

func (r *customerRepository) ApplyDelta(ctx context.Context, id uuid.UUID, delta models.CustomerDelta) (*models.Customer, error) {
	var customer *models.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		customer, err = applyDelta(tx, id, delta, time.Now())
		return err
	})
	if err != nil {
		return nil, translate("customers.apply_delta", "customer", err)
	}
	return customer, nil
}

// applyDelta changes every counter in one UPDATE whose WHERE clause refuses
// any result below zero.
func applyDelta(tx *gorm.DB, id uuid.UUID, d models.CustomerDelta, now time.Time) (*models.Customer, error) {
	updates := map[string]interface{}{
		"loyalty_points":  gorm.Expr("loyalty_points + ?", d.PointsDelta),
		"free_valets":     gorm.Expr("free_valets + ?", d.FreeValetsDelta),
		"valets_count":    gorm.Expr("valets_count + ?", d.ValetsCountDelta),
		"valets_redeemed": gorm.Expr("valets_redeemed + ?", d.ValetsRedeemedDelta),
		"updated_at":      now,
	}
	if d.TouchLastVisit {
		updates["last_visit"] = now
	}

	res := tx.Model(&models.Customer{}).
		Where("id = ?", id).
		Where("loyalty_points + ? >= 0 AND free_valets + ? >= 0 AND valets_count + ? >= 0 AND valets_redeemed + ? >= 0",
			d.PointsDelta, d.FreeValetsDelta, d.ValetsCountDelta, d.ValetsRedeemedDelta).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, apperr.NotFound("customers.apply_delta", "customer not found")
		}
		return nil, apperr.Validation("customers.apply_delta", "insufficient balance")
	}

	var customer models.Customer
	if err := tx.First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
