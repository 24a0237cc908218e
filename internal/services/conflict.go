package services

import (
	"gorm.io/gorm"

	"github.com/confreg/confreg/internal/models"
)

// HasConflict reports whether another valid (non-deleted, non-cancelled)
// registration exists on the same form for this registration's email or
// user. Intended for a currently cancelled registration, to decide whether
// restoring it would collide with the uniqueness constraints.
func HasConflict(tx *gorm.DB, reg *models.Registration) (bool, error) {
	q := tx.Model(&models.Registration{}).
		Where("registration_form_id = ?", reg.RegistrationFormID).
		Where("id <> ?", reg.ID).
		Where("is_deleted = ?", false).
		Where("state NOT IN ?", []models.RegistrationState{models.StateRejected, models.StateWithdrawn})
	if reg.UserID != nil {
		q = q.Where("email = ? OR user_id = ?", reg.Email, *reg.UserID)
	} else {
		q = q.Where("email = ?", reg.Email)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
