package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is an entry of the price list.
type Service struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string      `json:"name" gorm:"uniqueIndex;not null"`
	Kind      ServiceKind `json:"kind" gorm:"type:varchar(20);not null"`
	Price     int64       `json:"price" gorm:"not null;check:price >= 0"`
	IsActive  bool        `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

type ServiceKind string

const (
	ServiceWash        ServiceKind = "wash"
	ServiceDry         ServiceKind = "dry"
	ServiceValet       ServiceKind = "valet"
	ServiceIroning     ServiceKind = "ironing"
	ServiceDryCleaning ServiceKind = "dry_cleaning"
)

func (k ServiceKind) Valid() bool {
	switch k {
	case ServiceWash, ServiceDry, ServiceValet, ServiceIroning, ServiceDryCleaning:
		return true
	}
	return false
}
