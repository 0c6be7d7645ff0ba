package repository

import (
	"context"
	"laundry_manager/internal/models"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AgingNoticeRepository interface {
	// Claim inserts the notice unless one already exists for the same ticket
	// and bucket, reporting whether this call owns it. An unsent claim created
	// before staleBefore was abandoned mid-send and is taken over.
	Claim(ctx context.Context, notice *models.AgingNotice, staleBefore time.Time) (bool, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	Release(ctx context.Context, id uuid.UUID) error
	ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]models.AgingNotice, error)
}

type agingNoticeRepository struct {
	db *gorm.DB
}

func NewAgingNoticeRepository(db *gorm.DB) AgingNoticeRepository {
	return &agingNoticeRepository{db: db}
}

func (r *agingNoticeRepository) Claim(ctx context.Context, notice *models.AgingNotice, staleBefore time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket_id"}, {Name: "bucket"}},
		DoUpdates: clause.AssignmentColumns([]string{"id", "phone", "message", "created_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "aging_notices.sent = ? AND aging_notices.created_at < ?", Vars: []interface{}{false, staleBefore}},
		}},
	}).Create(notice)
	if res.Error != nil {
		return false, translate("aging_notices.claim", "aging notice", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *agingNoticeRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.AgingNotice{}).Where("id = ?", id).
		Update("sent", true).Error
	return translate("aging_notices.mark_sent", "aging notice", err)
}

// Release drops an unsent claim so the next scan tries again.
func (r *agingNoticeRepository) Release(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Where("sent = ?", false).Delete(&models.AgingNotice{}, "id = ?", id).Error
	return translate("aging_notices.release", "aging notice", err)
}

func (r *agingNoticeRepository) ListByTicket(ctx context.Context, ticketID uuid.UUID) ([]models.AgingNotice, error) {
	var notices []models.AgingNotice
	err := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID).Order("created_at ASC").Find(&notices).Error
	return notices, translate("aging_notices.list", "aging notice", err)
}
