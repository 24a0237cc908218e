package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/confreg/confreg/internal/db"
	svc "github.com/confreg/confreg/internal/services"
)

// GET /checkin?ticket=...
//
// Lookup endpoint hit by scanned ticket QRs; shows the registration so the
// operator can confirm before checking in.
func CheckinLookup(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("ticket"))
	if token == "" {
		writeErr(w, http.StatusBadRequest, "invalid_body")
		return
	}
	reg, err := svc.LoadRegistration(db.Conn(), idByTicket(token))
	if err != nil || reg.IsDeleted {
		writeErr(w, http.StatusNotFound, "reg_not_found")
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /checkin?ticket=...
func CheckinConfirm(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("ticket"))
	if token == "" {
		writeErr(w, http.StatusBadRequest, "invalid_body")
		return
	}
	reg, err := svc.LoadRegistration(db.Conn(), idByTicket(token))
	if err != nil || reg.IsDeleted {
		writeErr(w, http.StatusNotFound, "reg_not_found")
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

// idByTicket resolves a ticket token to a registration id (0 when unknown),
// so the follow-up load goes through the fully-preloaded path.
func idByTicket(token string) uint {
	reg, err := svc.LoadRegistrationByTicket(db.Conn(), token)
	if err != nil {
		return 0
	}
	return reg.ID
}
