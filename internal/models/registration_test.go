package models

import (
	"testing"
	"time"
)

func TestSetCheckedIn(t *testing.T) {
	var reg Registration

	reg.SetCheckedIn(true)
	if !reg.CheckedIn || reg.CheckedInDt == nil {
		t.Fatal("timestamp must be set on the false->true transition")
	}
	stamp := *reg.CheckedInDt

	reg.SetCheckedIn(true)
	if !reg.CheckedInDt.Equal(stamp) {
		t.Error("setting true again must not move the timestamp")
	}

	reg.SetCheckedIn(false)
	if reg.CheckedIn || reg.CheckedInDt != nil {
		t.Error("timestamp must be cleared when set false")
	}
}

func TestStatePredicates(t *testing.T) {
	cases := []struct {
		state       RegistrationState
		deleted     bool
		cancelled   bool
		active      bool
		publishable bool
	}{
		{StateComplete, false, false, true, true},
		{StateUnpaid, false, false, true, true},
		{StatePending, false, false, true, false},
		{StateRejected, false, true, false, false},
		{StateWithdrawn, false, true, false, false},
		{StateComplete, true, false, false, false},
	}
	for _, tc := range cases {
		reg := Registration{State: tc.state, IsDeleted: tc.deleted}
		if got := reg.IsCancelled(); got != tc.cancelled {
			t.Errorf("%s deleted=%v: IsCancelled want %v", tc.state, tc.deleted, tc.cancelled)
		}
		if got := reg.IsActive(); got != tc.active {
			t.Errorf("%s deleted=%v: IsActive want %v", tc.state, tc.deleted, tc.active)
		}
		if got := reg.IsStatePublishable(); got != tc.publishable {
			t.Errorf("%s deleted=%v: IsStatePublishable want %v", tc.state, tc.deleted, tc.publishable)
		}
	}
}

func TestIsPaid(t *testing.T) {
	reg := Registration{}
	if reg.IsPaid() {
		t.Error("no transaction must not count as paid")
	}
	if reg.PaymentDt() != nil {
		t.Error("no transaction must have no payment date")
	}
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg.Transaction = &PaymentTransaction{Status: TxPending, Timestamp: ts}
	if !reg.IsPaid() {
		t.Error("pending transaction counts as paid")
	}
	if dt := reg.PaymentDt(); dt == nil || !dt.Equal(ts) {
		t.Errorf("payment date: want %v, got %v", ts, dt)
	}
	reg.Transaction.Status = TxFailed
	if reg.IsPaid() {
		t.Error("failed transaction must not count as paid")
	}
	if reg.PaymentDt() != nil {
		t.Error("failed transaction must have no payment date")
	}
}

func TestCanBeWithdrawn(t *testing.T) {
	now := time.Now().UTC()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	reg := Registration{
		State: StateComplete,
		Event: Event{EndDt: future},
		Form:  RegistrationForm{ModificationMode: ModificationAllowed},
	}
	if !reg.CanBeWithdrawn(now) {
		t.Error("active unpaid-for registration should be withdrawable")
	}

	reg.Event.EndDt = past
	if reg.CanBeWithdrawn(now) {
		t.Error("ended event blocks withdrawal")
	}
	reg.Event.EndDt = future

	reg.Transaction = &PaymentTransaction{Status: TxSuccessful}
	if reg.CanBeWithdrawn(now) {
		t.Error("paid registration blocks withdrawal")
	}
	reg.Transaction = nil

	reg.Form.ModificationMode = ModificationNotAllowed
	if reg.CanBeWithdrawn(now) {
		t.Error("modification policy blocks withdrawal")
	}
	reg.Form.ModificationMode = ModificationAllowed

	reg.Form.ModificationEndDt = &past
	if reg.CanBeWithdrawn(now) {
		t.Error("modification deadline blocks withdrawal")
	}
}

func TestModificationDeadline(t *testing.T) {
	now := time.Now().UTC()
	reg := Registration{}
	if !reg.ModificationDeadlinePassed(now) {
		t.Error("no deadline counts as passed")
	}
	future := now.Add(time.Hour)
	reg.ModificationEndDt = &future
	if reg.ModificationDeadlinePassed(now) {
		t.Error("future deadline has not passed")
	}
}
