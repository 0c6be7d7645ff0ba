package services

import (
	"context"
	"fmt"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/metrics"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"

	"github.com/google/uuid"
)

type LoyaltyService interface {
	// Redeem exchanges the threshold of points for one free valet in a
	// single write.
	Redeem(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	// ConsumeFreeValet spends one previously redeemed free valet.
	ConsumeFreeValet(ctx context.Context, customerID uuid.UUID) (*models.Customer, error)
	History(ctx context.Context, customerID uuid.UUID, limit int) ([]models.LoyaltyEntry, error)
	Rule() LoyaltyRule
}

type loyaltyService struct {
	customerRepo repository.CustomerRepository
	loyaltyRepo  repository.LoyaltyRepository
	rule         LoyaltyRule
}

func NewLoyaltyService(customerRepo repository.CustomerRepository, loyaltyRepo repository.LoyaltyRepository, rule LoyaltyRule) LoyaltyService {
	return &loyaltyService{customerRepo: customerRepo, loyaltyRepo: loyaltyRepo, rule: rule}
}

func (s *loyaltyService) Rule() LoyaltyRule { return s.rule }

func (s *loyaltyService) Redeem(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !s.rule.CanRedeem(customer.LoyaltyPoints) {
		return nil, apperr.Validation("loyalty.redeem",
			fmt.Sprintf("not enough points: %d of %d", customer.LoyaltyPoints, s.rule.RedemptionThreshold))
	}
	delta := s.rule.Redemption()
	updated, err := s.loyaltyRepo.Record(ctx, &models.LoyaltyEntry{
		CustomerID:          customerID,
		Kind:                models.LoyaltyRedemption,
		PointsDelta:         delta.PointsDelta,
		FreeValetsDelta:     delta.FreeValetsDelta,
		ValetsRedeemedDelta: delta.ValetsRedeemedDelta,
	})
	if err != nil {
		return nil, err
	}
	metrics.LoyaltyRedemptions.Inc()
	return updated, nil
}

func (s *loyaltyService) ConsumeFreeValet(ctx context.Context, customerID uuid.UUID) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.FreeValets <= 0 {
		return nil, apperr.Validation("loyalty.consume", "customer has no free valets")
	}
	return s.loyaltyRepo.Record(ctx, &models.LoyaltyEntry{
		CustomerID:      customerID,
		Kind:            models.LoyaltyConsumption,
		FreeValetsDelta: -1,
	})
}

func (s *loyaltyService) History(ctx context.Context, customerID uuid.UUID, limit int) ([]models.LoyaltyEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.loyaltyRepo.ListByCustomer(ctx, customerID, limit)
}
