package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Unit        string    `json:"unit"` // liters, kg, units
	Quantity    int       `json:"quantity" gorm:"not null;default:0;check:quantity >= 0"`
	MinQuantity int       `json:"min_quantity" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i InventoryItem) IsLow() bool {
	return i.Quantity <= i.MinQuantity
}
