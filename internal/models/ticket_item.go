package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TicketItem struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	TicketID  uuid.UUID  `json:"ticket_id" gorm:"type:uuid;index;not null"`
	ServiceID *uuid.UUID `json:"service_id,omitempty" gorm:"type:uuid"`
	Kind      ItemKind   `json:"kind" gorm:"type:varchar(20);not null"`
	Name      string     `json:"name" gorm:"not null"`
	UnitPrice int64      `json:"unit_price" gorm:"not null"`
	Quantity  int        `json:"quantity" gorm:"not null"`
	Position  int        `json:"position"`
	CreatedAt time.Time  `json:"created_at"`
}

func (i *TicketItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ItemKind separates catalog services from priced-per-piece dry cleaning.
type ItemKind string

const (
	ItemService     ItemKind = "service"
	ItemDryCleaning ItemKind = "dry_cleaning"
)

func (i TicketItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
