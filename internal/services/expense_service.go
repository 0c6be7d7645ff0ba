package services

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"strings"
	"time"
)

type ExpenseService interface {
	CreateExpense(ctx context.Context, expense *models.Expense) error
	ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error)
	TotalExpenses(ctx context.Context, from, to time.Time) (int64, error)
}

type expenseService struct {
	expenseRepo repository.ExpenseRepository
}

func NewExpenseService(expenseRepo repository.ExpenseRepository) ExpenseService {
	return &expenseService{expenseRepo: expenseRepo}
}

func (s *expenseService) CreateExpense(ctx context.Context, expense *models.Expense) error {
	expense.Description = strings.TrimSpace(expense.Description)
	if expense.Description == "" {
		return apperr.Validation("expenses.create", "description is required")
	}
	if expense.Amount <= 0 {
		return apperr.Validation("expenses.create", "amount must be positive")
	}
	if expense.PaymentMethod != "" && !expense.PaymentMethod.Valid() {
		return apperr.Validation("expenses.create", "unknown payment method")
	}
	if expense.Category == "" {
		expense.Category = "other"
	}
	if expense.SpentAt.IsZero() {
		expense.SpentAt = time.Now()
	}
	return s.expenseRepo.Create(ctx, expense)
}

func (s *expenseService) ListExpenses(ctx context.Context, from, to time.Time) ([]models.Expense, error) {
	if err := validateRange("expenses.list", from, to); err != nil {
		return nil, err
	}
	return s.expenseRepo.ListBetween(ctx, from, to)
}

func (s *expenseService) TotalExpenses(ctx context.Context, from, to time.Time) (int64, error) {
	if err := validateRange("expenses.total", from, to); err != nil {
		return 0, err
	}
	return s.expenseRepo.SumBetween(ctx, from, to)
}
