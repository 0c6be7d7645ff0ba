package repository

import (
	"context"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketFilter struct {
	Status     models.TicketStatus
	CustomerID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// TransitionInput describes one guarded status change. The update only
// applies while the ticket is still in From.
type TransitionInput struct {
	TicketID     uuid.UUID
	From         models.TicketStatus
	To           models.TicketStatus
	At           time.Time
	CancelReason string
	MarkPaid     bool
	SetDelivered bool
	// Loyalty, when set, is recorded once per (ticket, To) and applied to the
	// owning customer in the same transaction.
	Loyalty *models.LoyaltyEntry
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *models.Ticket, counter string, format func(int64) string) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*models.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]models.Ticket, error)
	Transition(ctx context.Context, in TransitionInput) (*models.Ticket, bool, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (*models.Ticket, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepository{db: db}
}

// Create draws the ticket number and inserts the ticket with its items in a
// single transaction, so a failed insert never burns a number.
func (r *ticketRepository) Create(ctx context.Context, ticket *models.Ticket, counter string, format func(int64) string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextValue(tx, counter)
		if err != nil {
			return err
		}
		ticket.TicketNumber = format(seq)
		return tx.Omit("Customer").Create(ticket).Error
	})
	return translate("tickets.create", "ticket", err)
}

func (r *ticketRepository) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Preload("Customer")
}

func (r *ticketRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.preload(r.db.WithContext(ctx)).First(&ticket, "id = ?", id).Error
	if err != nil {
		return nil, translate("tickets.get", "ticket", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*models.Ticket, error) {
	var ticket models.Ticket
	err := r.preload(r.db.WithContext(ctx)).Where("ticket_number = ?", number).First(&ticket).Error
	if err != nil {
		return nil, translate("tickets.get_by_number", "ticket", err)
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]models.Ticket, error) {
	q := r.preload(r.db.WithContext(ctx)).Order("created_at DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var tickets []models.Ticket
	err := q.Find(&tickets).Error
	return tickets, translate("tickets.list", "ticket", err)
}

// Transition returns the ticket after the change and whether this call
// performed it. A ticket already in To is returned unchanged with false.
func (r *ticketRepository) Transition(ctx context.Context, in TransitionInput) (*models.Ticket, bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     in.To,
			"updated_at": in.At,
		}
		if in.CancelReason != "" {
			updates["cancel_reason"] = in.CancelReason
		}
		if in.MarkPaid {
			updates["is_paid"] = true
		}
		if in.SetDelivered {
			updates["delivered_at"] = in.At
		}

		res := tx.Model(&models.Ticket{}).
			Where("id = ? AND status = ?", in.TicketID, in.From).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Ticket
			if err := tx.Select("id", "status").First(&current, "id = ?", in.TicketID).Error; err != nil {
				return err
			}
			if current.Status == in.To {
				return nil
			}
			return apperr.Conflict("tickets.transition", "ticket is "+string(current.Status))
		}
		changed = true

		if in.Loyalty == nil {
			return nil
		}
		entry := *in.Loyalty
		entry.TicketID = &in.TicketID
		target := in.To
		entry.TargetStatus = &target
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry)
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			return nil
		}
		delta := entry.Delta()
		delta.TouchLastVisit = true
		_, err := applyDelta(tx, entry.CustomerID, delta, in.At)
		return err
	})
	if err != nil {
		return nil, false, translate("tickets.transition", "ticket", err)
	}
	ticket, err := r.GetByID(ctx, in.TicketID)
	if err != nil {
		return nil, false, err
	}
	return ticket, changed, nil
}

func (r *ticketRepository) MarkPaid(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	res := r.db.WithContext(ctx).Model(&models.Ticket{}).
		Where("id = ? AND status <> ?", id, models.TicketCanceled).
		Updates(map[string]interface{}{"is_paid": true, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, translate("tickets.mark_paid", "ticket", res.Error)
	}
	if res.RowsAffected == 0 {
		ticket, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, apperr.Conflict("tickets.mark_paid", "ticket is "+string(ticket.Status))
	}
	return r.GetByID(ctx, id)
}
