package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgingNotice struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	TicketID  uuid.UUID   `json:"ticket_id" gorm:"type:uuid;not null;uniqueIndex:idx_aging_ticket_bucket"`
	Bucket    AgingBucket `json:"bucket" gorm:"type:varchar(20);not null;uniqueIndex:idx_aging_ticket_bucket"`
	Phone     string      `json:"phone"`
	Message   string      `json:"message" gorm:"type:text"`
	Sent      bool        `json:"sent" gorm:"default:false"`
	CreatedAt time.Time   `json:"created_at"`
}

func (n *AgingNotice) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

type AgingBucket string

const (
	AgingFirstWarning AgingBucket = "first_warning"
	AgingFinalWarning AgingBucket = "final_warning"
)
