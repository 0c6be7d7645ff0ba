package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Expense struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	Description   string        `json:"description" gorm:"not null"`
	Category      string        `json:"category" gorm:"index"` // supplies, rent, utilities, wages, other
	Amount        int64         `json:"amount" gorm:"not null;check:amount > 0"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(20)"`
	SpentAt       time.Time     `json:"spent_at" gorm:"index;not null"`
	CreatedBy     uuid.UUID     `json:"created_by" gorm:"type:uuid"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
