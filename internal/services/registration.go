package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/confreg/confreg/internal/models"
)

var (
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrFormClosed        = errors.New("registration form is deleted")
	ErrNotWithdrawable   = errors.New("registration cannot be withdrawn")
	ErrCheckInNotAllowed = errors.New("only active complete/unpaid registrations can be checked in")
)

// NewRegistration is the submission payload for CreateRegistration.
type NewRegistration struct {
	FormID           uint
	UserID           *uint
	Email            string
	FirstName        string
	LastName         string
	Consent          models.Visibility
	CreatedByManager bool
	SkipModeration   bool
	// Submitted values keyed by field id; unknown/inactive fields ignored.
	Data map[uint]json.RawMessage
}

// CreateRegistration mints identity (uuid, ticket uuid, per-event friendly
// number), builds the data entries, links a matching invitation and derives
// the initial state, all inside one transaction. Uniqueness of
// (form, email) / (form, user) is the database's job; a constraint error
// propagates to the caller.
func CreateRegistration(g *gorm.DB, in NewRegistration) (*models.Registration, error) {
	email, ok := NormEmail(in.Email)
	if !ok {
		return nil, ErrInvalidEmail
	}
	var reg *models.Registration
	err := g.Transaction(func(tx *gorm.DB) error {
		var form models.RegistrationForm
		if err := tx.Preload("Event").First(&form, in.FormID).Error; err != nil {
			return err
		}
		if form.IsDeleted {
			return ErrFormClosed
		}

		if err := tx.Model(&models.Event{}).Where("id = ?", form.EventID).
			UpdateColumn("last_friendly_registration_id", gorm.Expr("last_friendly_registration_id + 1")).Error; err != nil {
			return err
		}
		var ev models.Event
		if err := tx.First(&ev, form.EventID).Error; err != nil {
			return err
		}

		reg = &models.Registration{
			UUID:               uuid.NewString(),
			TicketUUID:         uuid.NewString(),
			FriendlyID:         ev.LastFriendlyRegistrationID,
			EventID:            ev.ID,
			Event:              ev,
			RegistrationFormID: form.ID,
			Form:               form,
			UserID:             in.UserID,
			BasePrice:          form.BasePrice,
			Currency:           form.Currency,
			SubmittedDt:        time.Now().UTC(),
			Email:              email,
			FirstName:          in.FirstName,
			LastName:           in.LastName,
			ConsentToPublish:   in.Consent,
			CreatedByManager:   in.CreatedByManager,
		}

		if len(in.Data) > 0 {
			var fields []models.FormField
			if err := tx.Where("form_id = ? AND is_active AND NOT is_deleted", form.ID).
				Find(&fields).Error; err != nil {
				return err
			}
			for _, f := range fields {
				raw, ok := in.Data[f.ID]
				if !ok {
					continue
				}
				reg.Data = append(reg.Data, models.RegistrationData{
					FieldID: f.ID,
					Field:   f,
					Data:    datatypes.JSON(raw),
				})
			}
		}

		var inv models.Invitation
		if err := tx.Where("form_id = ? AND email = ? AND registration_id IS NULL", form.ID, email).
			First(&inv).Error; err == nil {
			reg.Invitation = &inv
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		SyncState(reg, in.SkipModeration)

		inv2 := reg.Invitation
		reg.Invitation = nil // created separately below, keep gorm from re-inserting it
		if err := tx.Omit("Event", "Form", "User", "Transaction", "Tags").Create(reg).Error; err != nil {
			return err
		}
		if inv2 != nil {
			if err := tx.Model(inv2).Update("registration_id", reg.ID).Error; err != nil {
				return err
			}
			reg.Invitation = inv2
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadRegistration fetches a registration with everything the state machine
// and price calculation need.
func LoadRegistration(g *gorm.DB, id uint) (*models.Registration, error) {
	var reg models.Registration
	err := g.Preload("Event").Preload("Form").Preload("Transaction").
		Preload("Invitation").Preload("Data").Preload("Data.Field").
		First(&reg, id).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// LoadRegistrationByToken resolves the unguessable access token.
func LoadRegistrationByToken(g *gorm.DB, token string) (*models.Registration, error) {
	var reg models.Registration
	err := g.Preload("Event").Preload("Form").Preload("Transaction").
		Preload("Invitation").Preload("Data").Preload("Data.Field").
		Where("uuid = ?", token).First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// LoadRegistrationByTicket resolves the token embedded in tickets.
func LoadRegistrationByTicket(g *gorm.DB, token string) (*models.Registration, error) {
	var reg models.Registration
	err := g.Preload("Form").Where("ticket_uuid = ?", token).First(&reg).Error
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetAllForEvent returns the active registrations across the event's
// non-deleted forms.
func GetAllForEvent(g *gorm.DB, eventID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := g.
		Joins("JOIN registration_forms rf ON rf.id = registrations.registration_form_id").
		Where("rf.is_deleted = ?", false).
		Where("registrations.event_id = ?", eventID).
		Where("registrations.is_deleted = ?", false).
		Where("registrations.state NOT IN ?", []models.RegistrationState{models.StateRejected, models.StateWithdrawn}).
		Preload("Event").Preload("Form").Preload("Transaction").
		Preload("Data").Preload("Data.Field").
		Find(&regs).Error
	return regs, err
}

// persistState writes the columns the state machine owns in one UPDATE, so
// state and check-in always move together.
func persistState(tx *gorm.DB, reg *models.Registration) error {
	return tx.Model(reg).
		Select("state", "rejection_reason", "checked_in", "checked_in_dt").
		Updates(reg).Error
}

// Approve applies the moderator's approval and persists the outcome.
func Approve(g *gorm.DB, reg *models.Registration) error {
	return g.Transaction(func(tx *gorm.DB) error {
		UpdateState(reg, StateAction{Approved: Bool(true)}, false)
		return persistState(tx, reg)
	})
}

// Reject records the moderator's rejection and the given reason.
func Reject(g *gorm.DB, reg *models.Registration, reason string) error {
	return g.Transaction(func(tx *gorm.DB) error {
		reg.RejectionReason = reason
		UpdateState(reg, StateAction{Rejected: Bool(true)}, false)
		return persistState(tx, reg)
	})
}

// Withdraw is the registrant pulling out, gated by the form's policy.
func Withdraw(g *gorm.DB, reg *models.Registration) error {
	if !reg.CanBeWithdrawn(time.Now().UTC()) {
		return ErrNotWithdrawable
	}
	return g.Transaction(func(tx *gorm.DB) error {
		UpdateState(reg, StateAction{Withdrawn: Bool(true)}, false)
		return persistState(tx, reg)
	})
}

// MarkPaid/MarkUnpaid follow a payment (or its reversal) from the gateway.
func MarkPaid(g *gorm.DB, reg *models.Registration, tx *models.PaymentTransaction) error {
	return g.Transaction(func(dbtx *gorm.DB) error {
		if tx != nil {
			tx.RegistrationID = reg.ID
			if err := dbtx.Create(tx).Error; err != nil {
				return err
			}
			reg.Transaction = tx
			reg.TransactionID = &tx.ID
			if err := dbtx.Model(reg).Update("transaction_id", tx.ID).Error; err != nil {
				return err
			}
		}
		UpdateState(reg, StateAction{Paid: Bool(true)}, false)
		return persistState(dbtx, reg)
	})
}

func MarkUnpaid(g *gorm.DB, reg *models.Registration) error {
	return g.Transaction(func(tx *gorm.DB) error {
		reg.Transaction = nil
		reg.TransactionID = nil
		if err := tx.Model(reg).Update("transaction_id", nil).Error; err != nil {
			return err
		}
		UpdateState(reg, StateAction{Paid: Bool(false)}, false)
		return persistState(tx, reg)
	})
}

// Reset restores a cancelled registration toward pending (see ResetState).
func Reset(g *gorm.DB, reg *models.Registration) error {
	return g.Transaction(func(tx *gorm.DB) error {
		if err := ResetState(tx, reg); err != nil {
			return err
		}
		return persistState(tx, reg)
	})
}

// SetCheckIn flips the check-in flag for an eligible registration.
func SetCheckIn(g *gorm.DB, reg *models.Registration, checkedIn bool) error {
	if checkedIn && !reg.IsStatePublishable() {
		return ErrCheckInNotAllowed
	}
	return g.Transaction(func(tx *gorm.DB) error {
		reg.SetCheckedIn(checkedIn)
		return persistState(tx, reg)
	})
}

// SoftDelete hides the registration; rows are never hard-deleted.
func SoftDelete(g *gorm.DB, reg *models.Registration) error {
	reg.IsDeleted = true
	return g.Model(reg).Update("is_deleted", true).Error
}

// PersonalData extracts the personal-data fields as friendly text, falling
// back to the stored contact columns for anything missing.
func PersonalData(reg *models.Registration) map[string]string {
	out := make(map[string]string)
	for i := range reg.Data {
		d := &reg.Data[i]
		if d.Field.PersonalDataType == "" || len(d.Data) == 0 {
			continue
		}
		if v := FriendlyData(d, false); v != "" {
			out[d.Field.PersonalDataType] = v
		}
	}
	if _, ok := out["first_name"]; !ok {
		out["first_name"] = reg.FirstName
	}
	if _, ok := out["last_name"]; !ok {
		out["last_name"] = reg.LastName
	}
	if _, ok := out["email"]; !ok {
		out["email"] = reg.Email
	}
	return out
}
