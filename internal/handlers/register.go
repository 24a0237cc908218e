package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/confreg/confreg/internal/db"
	"github.com/confreg/confreg/internal/models"
	svc "github.com/confreg/confreg/internal/services"
)

type registerRequest struct {
	Email     string                     `json:"email"`
	FirstName string                     `json:"first_name"`
	LastName  string                     `json:"last_name"`
	UserID    *uint                      `json:"user_id"`
	Consent   string                     `json:"consent_to_publish"` // nobody | participants | all
	Data      map[string]json.RawMessage `json:"data"`               // field id -> payload
}

func parseConsent(s string) models.Visibility {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "participants":
		return models.VisibilityParticipants
	case "all":
		return models.VisibilityAll
	}
	return models.VisibilityNobody
}

// POST /api/forms/{id}/register
func RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	formID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, "form_not_found")
		return
	}
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_body")
		return
	}

	data := make(map[uint]json.RawMessage, len(req.Data))
	for k, v := range req.Data {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid_body")
			return
		}
		data[uint(id)] = v
	}

	reg, err := svc.CreateRegistration(db.Conn(), svc.NewRegistration{
		FormID:    uint(formID),
		UserID:    req.UserID,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Consent:   parseConsent(req.Consent),
		Data:      data,
	})
	switch {
	case errors.Is(err, svc.ErrInvalidEmail):
		writeErr(w, http.StatusBadRequest, "invalid_email")
		return
	case errors.Is(err, svc.ErrFormClosed), errors.Is(err, gorm.ErrRecordNotFound):
		writeErr(w, http.StatusNotFound, "form_not_found")
		return
	case err != nil && isUniqueViolation(err):
		writeErr(w, http.StatusConflict, "already_registered")
		return
	case err != nil:
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, regView(reg, time.Now().UTC()))
}

// The sqlite driver reports constraint violations as plain errors; match on
// the message since there is no typed error to unwrap.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique")
}
