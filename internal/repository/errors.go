package repository

import (
	"errors"
	"laundry_manager/internal/apperr"

	"gorm.io/gorm"
)

// translate maps gorm errors onto the application error kinds.
func translate(op, what string, err error) error {
	if err == nil {
		return nil
	}
	var tagged *apperr.Error
	if errors.As(err, &tagged) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(op, what+" not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(op, what+" already exists")
	}
	return apperr.Transient(op, err)
}
