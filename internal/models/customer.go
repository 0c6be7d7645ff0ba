package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string     `json:"name" gorm:"not null"`
	PhoneNumber    string     `json:"phone_number" gorm:"uniqueIndex;not null"`
	ValetsCount    int        `json:"valets_count" gorm:"not null;default:0;check:valets_count >= 0"`
	FreeValets     int        `json:"free_valets" gorm:"not null;default:0;check:free_valets >= 0"`
	LoyaltyPoints  int        `json:"loyalty_points" gorm:"not null;default:0;check:loyalty_points >= 0"`
	ValetsRedeemed int        `json:"valets_redeemed" gorm:"not null;default:0;check:valets_redeemed >= 0"`
	LastVisit      *time.Time `json:"last_visit"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CustomerDelta is a signed change applied to a customer's counters in a
// single write.
type CustomerDelta struct {
	PointsDelta         int  `json:"points_delta"`
	FreeValetsDelta     int  `json:"free_valets_delta"`
	ValetsCountDelta    int  `json:"valets_count_delta"`
	ValetsRedeemedDelta int  `json:"valets_redeemed_delta"`
	TouchLastVisit      bool `json:"touch_last_visit"`
}
