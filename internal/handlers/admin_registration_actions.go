package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/confreg/confreg/internal/db"
	"github.com/confreg/confreg/internal/models"
	svc "github.com/confreg/confreg/internal/services"
)

// POST /api/admin/registrations/{id}/approve
func AdminRegApprove(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.Approve(db.Conn(), reg); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/reject  {"reason": "..."}
func AdminRegReject(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if err := svc.Reject(db.Conn(), reg, body.Reason); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/withdraw
func AdminRegWithdraw(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.Withdraw(db.Conn(), reg); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, "not_withdrawable")
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/reset
//
// Restores a cancelled registration toward pending; refused with 409 when
// another valid registration exists for the same identity.
func AdminRegReset(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.Reset(db.Conn(), reg); err != nil {
		if errors.Is(err, svc.ErrRegistrationConflict) {
			writeErr(w, http.StatusConflict, "conflict")
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/checkin
func AdminRegCheckin(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.SetCheckIn(db.Conn(), reg, true); err != nil {
		if errors.Is(err, svc.ErrCheckInNotAllowed) {
			writeErr(w, http.StatusUnprocessableEntity, "invalid_checkin")
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/checkout
func AdminRegCheckout(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.SetCheckIn(db.Conn(), reg, false); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/paid
//
// Records a successful payment (gateway callback or manual marking) and
// moves an unpaid registration to complete.
func AdminRegMarkPaid(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	tx := &models.PaymentTransaction{
		Status:    models.TxSuccessful,
		Amount:    svc.Price(reg),
		Currency:  reg.Currency,
		Timestamp: time.Now().UTC(),
	}
	if err := svc.MarkPaid(db.Conn(), reg, tx); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/unpaid
//
// Reverses a payment (refund or failed settlement); the registration owes
// its price again.
func AdminRegMarkUnpaid(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.MarkUnpaid(db.Conn(), reg); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/admin/registrations/{id}/delete (soft)
func AdminRegDelete(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	if err := svc.SoftDelete(db.Conn(), reg); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/admin/registrations/{id}/hidden  {"hidden": true}
//
// Manager override that forces visibility to nobody regardless of consent.
func AdminRegSetHidden(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	var body struct {
		Hidden bool `json:"hidden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_body")
		return
	}
	reg.ParticipantHidden = body.Hidden
	if err := db.Conn().Model(reg).Update("participant_hidden", body.Hidden).Error; err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}
