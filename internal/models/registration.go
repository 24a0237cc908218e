package models

import "time"

// IsCancelled reports whether the registrant is out of the running
// (rejected by a manager or withdrawn by themselves).
func (r *Registration) IsCancelled() bool {
	return r.State == StateRejected || r.State == StateWithdrawn
}

func (r *Registration) IsActive() bool {
	return !r.IsCancelled() && !r.IsDeleted
}

// IsStatePublishable reports whether the state alone permits publication;
// the visibility resolver applies consent and form policy on top.
func (r *Registration) IsStatePublishable() bool {
	return r.IsActive() && (r.State == StateComplete || r.State == StateUnpaid)
}

// IsPaid counts a pending transaction as paid: the money is on its way and
// the registrant should not be asked again.
func (r *Registration) IsPaid() bool {
	if r.Transaction == nil {
		return false
	}
	return r.Transaction.Status == TxSuccessful || r.Transaction.Status == TxPending
}

// PaymentDt returns when the registration was paid for, or nil.
func (r *Registration) PaymentDt() *time.Time {
	if !r.IsPaid() {
		return nil
	}
	return &r.Transaction.Timestamp
}

// SetCheckedIn flips the check-in flag and keeps CheckedInDt consistent:
// set exactly on the false->true transition, cleared whenever set false.
func (r *Registration) SetCheckedIn(v bool) {
	if !v {
		r.CheckedInDt = nil
	} else if !r.CheckedIn {
		now := time.Now().UTC()
		r.CheckedInDt = &now
	}
	r.CheckedIn = v
}

func (r *Registration) ModificationDeadlinePassed(now time.Time) bool {
	if r.ModificationEndDt == nil {
		return true
	}
	return r.ModificationEndDt.Before(now)
}

// CanBeWithdrawn reports whether the registrant may still pull out on their
// own. Requires Form and Event to be loaded.
func (r *Registration) CanBeWithdrawn(now time.Time) bool {
	switch {
	case !r.IsActive():
		return false
	case r.IsPaid():
		return false
	case r.Event.EndDt.Before(now):
		return false
	case r.Form.ModificationMode == ModificationNotAllowed:
		return false
	case r.Form.ModificationEndDt != nil && r.Form.ModificationEndDt.Before(now):
		return false
	}
	return true
}

// CanBeModified reports whether self-service edits are currently allowed
// under the form's modification policy. Requires Form to be loaded.
func (r *Registration) CanBeModified(now time.Time) bool {
	switch r.Form.ModificationMode {
	case ModificationNotAllowed:
		return false
	case ModificationUntilPayment:
		if r.IsPaid() {
			return false
		}
	}
	if r.Form.ModificationEndDt != nil && r.Form.ModificationEndDt.Before(now) {
		return false
	}
	return true
}

// FullName returns "Firstname Lastname".
func (r *Registration) FullName() string {
	return r.FirstName + " " + r.LastName
}

// DataByField maps field id -> data entry for the loaded Data collection.
func (r *Registration) DataByField() map[uint]*RegistrationData {
	m := make(map[uint]*RegistrationData, len(r.Data))
	for i := range r.Data {
		m[r.Data[i].FieldID] = &r.Data[i]
	}
	return m
}

// HasFile reports whether this entry carries a stored file.
func (d *RegistrationData) HasFile() bool {
	return d.StorageFileID != ""
}
