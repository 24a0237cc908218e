package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/confreg/confreg/internal/events"
	"github.com/confreg/confreg/internal/models"
)

// ErrRegistrationConflict blocks restoring a cancelled registration while
// another valid one exists for the same user or email.
var ErrRegistrationConflict = errors.New("another valid registration exists for the same user or email")

// StateAction is one explicit action for UpdateState: true means the action
// occurred, false that it was reverted, nil that it is not relevant to this
// call. Setting more than one field is a caller bug.
type StateAction struct {
	Approved  *bool
	Paid      *bool
	Rejected  *bool
	Withdrawn *bool
}

func Bool(v bool) *bool { return &v }

func (a StateAction) count() int {
	n := 0
	for _, p := range []*bool{a.Approved, a.Paid, a.Rejected, a.Withdrawn} {
		if p != nil {
			n++
		}
	}
	return n
}

func isTrue(p *bool) bool  { return p != nil && *p }
func isFalse(p *bool) bool { return p != nil && !*p }

// moderationRequired is recomputed on every call, never cached: the form
// setting or the invitation may have changed since the last transition.
func moderationRequired(reg *models.Registration, skip bool) bool {
	if !reg.Form.ModerationEnabled || skip {
		return false
	}
	return reg.Invitation == nil || !reg.Invitation.SkipModeration
}

// SyncState re-derives the state after a field edit or payment-requirement
// change, without treating the change as an explicit action. Idempotent.
// Requires Form, Event, Invitation, Transaction and Data to be loaded.
//
// Only three situations move the state: the initial assignment, unpaid
// becoming free, and complete becoming chargeable. Everything else is left
// to explicit actions via UpdateState.
func SyncState(reg *models.Registration, skipModeration bool) {
	initial := reg.State
	price := Price(reg)
	paymentRequired := reg.Event.HasPaymentFeature && price.IsPositive() && !reg.IsPaid()
	switch reg.State {
	case models.StateNone:
		switch {
		case moderationRequired(reg, skipModeration):
			reg.State = models.StatePending
		case paymentRequired:
			reg.State = models.StateUnpaid
		default:
			reg.State = models.StateComplete
		}
	case models.StateUnpaid:
		if !price.IsPositive() {
			reg.State = models.StateComplete
		}
	case models.StateComplete:
		if paymentRequired {
			reg.State = models.StateUnpaid
		}
	case models.StatePending, models.StateRejected, models.StateWithdrawn:
		// untouched by sync
	}
	notifyStateChange(reg, initial)
}

// UpdateState applies one explicit action (moderation decision, payment,
// withdrawal) to the current state. Unlisted (state, action) combinations
// leave the state unchanged. Requires the same associations as SyncState.
func UpdateState(reg *models.Registration, action StateAction, skipModeration bool) {
	if action.count() > 1 {
		panic("registration: more than one state action specified")
	}
	initial := reg.State
	modRequired := moderationRequired(reg, skipModeration)
	// Unlike SyncState this ignores whether the registration is already
	// paid: a nonzero price with the payment feature on means approval
	// routes through unpaid.
	payRequired := reg.Event.HasPaymentFeature && Price(reg).IsPositive()

	switch reg.State {
	case models.StatePending:
		switch {
		case isTrue(action.Approved) && payRequired:
			reg.State = models.StateUnpaid
		case isTrue(action.Approved):
			reg.State = models.StateComplete
		case isTrue(action.Rejected):
			reg.State = models.StateRejected
		case isTrue(action.Withdrawn):
			reg.State = models.StateWithdrawn
		}
	case models.StateUnpaid:
		switch {
		case isTrue(action.Paid):
			reg.State = models.StateComplete
		case isFalse(action.Approved):
			reg.State = models.StatePending
		case isTrue(action.Withdrawn):
			reg.State = models.StateWithdrawn
		}
	case models.StateComplete:
		switch {
		case isFalse(action.Approved) && !payRequired && modRequired:
			reg.State = models.StatePending
		case isFalse(action.Paid) && payRequired:
			reg.State = models.StateUnpaid
		case isTrue(action.Withdrawn):
			reg.State = models.StateWithdrawn
		}
	case models.StateRejected:
		switch {
		case isFalse(action.Rejected) && modRequired:
			reg.State = models.StatePending
		case isFalse(action.Rejected) && payRequired:
			reg.State = models.StateUnpaid
		case isFalse(action.Rejected):
			reg.State = models.StateComplete
		}
	case models.StateWithdrawn:
		switch {
		case isFalse(action.Withdrawn) && modRequired:
			reg.State = models.StatePending
		case isFalse(action.Withdrawn) && payRequired:
			reg.State = models.StateUnpaid
		case isFalse(action.Withdrawn):
			reg.State = models.StateComplete
		}
	}
	notifyStateChange(reg, initial)
}

// ResetState restores a cancelled (or moderated) registration toward
// pending, refusing when another valid registration for the same identity
// exists. The check-in flag is always cleared, whatever branch ran.
func ResetState(tx *gorm.DB, reg *models.Registration) error {
	conflict, err := HasConflict(tx, reg)
	if err != nil {
		return err
	}
	if conflict {
		return ErrRegistrationConflict
	}
	switch reg.State {
	case models.StateComplete, models.StateUnpaid:
		UpdateState(reg, StateAction{Approved: Bool(false)}, false)
	case models.StateRejected:
		reg.RejectionReason = ""
		UpdateState(reg, StateAction{Rejected: Bool(false)}, false)
	case models.StateWithdrawn:
		UpdateState(reg, StateAction{Withdrawn: Bool(false)}, false)
	case models.StatePending:
		// nothing to restore
	default:
		panic(fmt.Sprintf("registration: cannot reset state from %s", reg.State))
	}
	reg.SetCheckedIn(false)
	return nil
}

func notifyStateChange(reg *models.Registration, previous models.RegistrationState) {
	if reg.State != previous && events.OnStateChange != nil {
		events.OnStateChange(reg, previous)
	}
}
