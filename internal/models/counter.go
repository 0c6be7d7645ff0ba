package models

import "time"

// Counter is a named server-side sequence.
type Counter struct {
	Name      string    `json:"name" gorm:"primaryKey"`
	Value     int64     `json:"value" gorm:"not null;default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

const TicketCounter = "ticket_number"
