package persistence

import (
	"errors"

	"github.com/bizledger/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// requireAffected turns a statement that touched no rows into shared.ErrNotFound
func requireAffected(result *gorm.DB) error {
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
