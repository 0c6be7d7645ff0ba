package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ticket struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	TicketNumber  string       `json:"ticket_number" gorm:"uniqueIndex;not null"`
	CustomerID    uuid.UUID    `json:"customer_id" gorm:"type:uuid;index;not null"`
	Customer      *Customer    `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	Items         []TicketItem `json:"items" gorm:"foreignKey:TicketID"`
	ValetQuantity int          `json:"valet_quantity" gorm:"not null;default:0"`

	SeparateByColor bool `json:"separate_by_color"`
	DelicateDry     bool `json:"delicate_dry"`
	StainRemoval    bool `json:"stain_removal"`
	Bleach          bool `json:"bleach"`
	NoFragrance     bool `json:"no_fragrance"`
	NoDry           bool `json:"no_dry"`

	TotalPrice    int64         `json:"total_price" gorm:"not null;check:total_price >= 0"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(20);not null"`
	IsPaid        bool          `json:"is_paid" gorm:"default:false"`
	Status        TicketStatus  `json:"status" gorm:"type:varchar(20);index;default:'pending'"`
	CancelReason  string        `json:"cancel_reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DeliveredAt   *time.Time    `json:"delivered_at"`
}

func (t *Ticket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type TicketStatus string

const (
	TicketPending    TicketStatus = "pending"
	TicketProcessing TicketStatus = "processing"
	TicketReady      TicketStatus = "ready"
	TicketDelivered  TicketStatus = "delivered"
	TicketCanceled   TicketStatus = "canceled"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketPending, TicketProcessing, TicketReady, TicketDelivered, TicketCanceled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s TicketStatus) Terminal() bool {
	return s == TicketDelivered || s == TicketCanceled
}

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentDebit       PaymentMethod = "debit"
	PaymentMercadoPago PaymentMethod = "mercadopago"
	PaymentCuentaDNI   PaymentMethod = "cuentaDni"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentDebit, PaymentMercadoPago, PaymentCuentaDNI:
		return true
	}
	return false
}

// LaundryOptions are the per-ticket handling flags.
type LaundryOptions struct {
	SeparateByColor bool `json:"separate_by_color"`
	DelicateDry     bool `json:"delicate_dry"`
	StainRemoval    bool `json:"stain_removal"`
	Bleach          bool `json:"bleach"`
	NoFragrance     bool `json:"no_fragrance"`
	NoDry           bool `json:"no_dry"`
}

func (t *Ticket) SetOptions(o LaundryOptions) {
	t.SeparateByColor = o.SeparateByColor
	t.DelicateDry = o.DelicateDry
	t.StainRemoval = o.StainRemoval
	t.Bleach = o.Bleach
	t.NoFragrance = o.NoFragrance
	t.NoDry = o.NoDry
}

func (t Ticket) Options() LaundryOptions {
	return LaundryOptions{
		SeparateByColor: t.SeparateByColor,
		DelicateDry:     t.DelicateDry,
		StainRemoval:    t.StainRemoval,
		Bleach:          t.Bleach,
		NoFragrance:     t.NoFragrance,
		NoDry:           t.NoDry,
	}
}
