package services

import (
	"laundry_manager/internal/config"
	"laundry_manager/internal/models"
)

// LoyaltyRule turns delivered valets into points and points into free valets
// at a fixed, configured rate.
type LoyaltyRule struct {
	PointsPerValet      int
	RedemptionThreshold int
}

func NewLoyaltyRule(cfg config.LoyaltyConfig) LoyaltyRule {
	return LoyaltyRule{
		PointsPerValet:      cfg.PointsPerValet,
		RedemptionThreshold: cfg.RedemptionThreshold,
	}
}

// ValetUnits is the number of valets a ticket counts for; a ticket without an
// explicit valet quantity counts as one service.
func ValetUnits(t models.Ticket) int {
	if t.ValetQuantity > 0 {
		return t.ValetQuantity
	}
	return 1
}

// Accrual is the counter change earned by delivering t.
func (r LoyaltyRule) Accrual(t models.Ticket) models.CustomerDelta {
	units := ValetUnits(t)
	return models.CustomerDelta{
		PointsDelta:      units * r.PointsPerValet,
		ValetsCountDelta: units,
	}
}

func (r LoyaltyRule) CanRedeem(points int) bool {
	return r.RedemptionThreshold > 0 && points >= r.RedemptionThreshold
}

// Redemption exchanges threshold points for one free valet.
func (r LoyaltyRule) Redemption() models.CustomerDelta {
	return models.CustomerDelta{
		PointsDelta:         -r.RedemptionThreshold,
		FreeValetsDelta:     1,
		ValetsRedeemedDelta: 1,
	}
}
