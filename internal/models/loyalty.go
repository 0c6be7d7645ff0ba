package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyEntry records every counter change made to a customer. Entries
// produced by a ticket transition are unique per (ticket, target status).
type LoyaltyEntry struct {
	ID                  uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	CustomerID          uuid.UUID     `json:"customer_id" gorm:"type:uuid;index;not null"`
	TicketID            *uuid.UUID    `json:"ticket_id" gorm:"type:uuid;uniqueIndex:idx_loyalty_ticket_status"`
	TargetStatus        *TicketStatus `json:"target_status" gorm:"type:varchar(20);uniqueIndex:idx_loyalty_ticket_status"`
	Kind                LoyaltyKind   `json:"kind" gorm:"type:varchar(20);not null"`
	PointsDelta         int           `json:"points_delta"`
	FreeValetsDelta     int           `json:"free_valets_delta"`
	ValetsCountDelta    int           `json:"valets_count_delta"`
	ValetsRedeemedDelta int           `json:"valets_redeemed_delta"`
	CreatedAt           time.Time     `json:"created_at"`
}

func (e *LoyaltyEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

type LoyaltyKind string

const (
	LoyaltyAccrual     LoyaltyKind = "accrual"
	LoyaltyRedemption  LoyaltyKind = "redemption"
	LoyaltyConsumption LoyaltyKind = "consumption"
)

func (e LoyaltyEntry) Delta() CustomerDelta {
	return CustomerDelta{
		PointsDelta:         e.PointsDelta,
		FreeValetsDelta:     e.FreeValetsDelta,
		ValetsCountDelta:    e.ValetsCountDelta,
		ValetsRedeemedDelta: e.ValetsRedeemedDelta,
	}
}
