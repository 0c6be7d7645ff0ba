package repository

import (
	"context"
	"laundry_manager/internal/models"
	"time"

	"gorm.io/gorm"
)

type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) error
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	SumBetween(ctx context.Context, from, to time.Time) (int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return translate("expenses.create", "expense", r.db.WithContext(ctx).Create(expense).Error)
}

func (r *expenseRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).
		Where("spent_at >= ? AND spent_at < ?", from, to).
		Order("spent_at DESC").
		Find(&expenses).Error
	return expenses, translate("expenses.list", "expense", err)
}

func (r *expenseRepository) SumBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Where("spent_at >= ? AND spent_at < ?", from, to).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, translate("expenses.sum", "expense", err)
}
