package repository

import (
	"context"
	"fmt"
	"laundry_manager/internal/apperr"
	"laundry_manager/internal/models"

	"gorm.io/gorm"
)

type CounterRepository interface {
	Get(ctx context.Context, name string) (int64, error)
	// Reset stores value so the next draw returns value+1. The ticket counter
	// refuses values below the highest number already issued.
	Reset(ctx context.Context, name string, value int64) error
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

// nextValue increments and returns the counter in one statement, creating it
// on first use.
func nextValue(db *gorm.DB, name string) (int64, error) {
	var value int64
	err := db.Raw(`
		INSERT INTO counters (name, value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1, updated_at = now()
		RETURNING value
	`, name).Scan(&value).Error
	return value, err
}

func (r *counterRepository) Get(ctx context.Context, name string) (int64, error) {
	var counter models.Counter
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&counter).Error
	if err != nil {
		return 0, translate("counters.get", "counter", err)
	}
	return counter.Value, nil
}

func (r *counterRepository) Reset(ctx context.Context, name string, value int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Ticket creation draws under this row lock, so no number can be
		// issued between the floor check and the update.
		if err := tx.Exec(`
			INSERT INTO counters (name, value, updated_at)
			VALUES (?, 0, now())
			ON CONFLICT (name) DO NOTHING
		`, name).Error; err != nil {
			return err
		}
		var current int64
		if err := tx.Raw(`SELECT value FROM counters WHERE name = ? FOR UPDATE`, name).Scan(&current).Error; err != nil {
			return err
		}

		var highest int64
		if name == models.TicketCounter {
			if err := tx.Raw(`SELECT COALESCE(MAX(CAST(ticket_number AS BIGINT)), 0) FROM tickets`).Scan(&highest).Error; err != nil {
				return err
			}
		}
		if err := checkReset(name, value, highest); err != nil {
			return err
		}
		return tx.Exec(`UPDATE counters SET value = ?, updated_at = now() WHERE name = ?`, value, name).Error
	})
	return translate("counters.reset", "counter", err)
}

// checkReset rejects a reset that would make the counter hand out a number
// that is already taken.
func checkReset(name string, value, highest int64) error {
	if value < 0 {
		return apperr.Validation("counters.reset", "value cannot be negative")
	}
	if value < highest {
		return apperr.Validation("counters.reset",
			fmt.Sprintf("counter %s cannot go below %d, the highest number already issued", name, highest))
	}
	return nil
}
