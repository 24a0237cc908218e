package handlers

import (
	"encoding/json"
	"net/http"
)

// API error codes and their user-facing messages.
var errText = map[string]string{
	"invalid_body":       "Request body could not be parsed.",
	"invalid_email":      "Invalid email address.",
	"form_not_found":     "Registration form not found.",
	"reg_not_found":      "Registration not found.",
	"event_not_found":    "Event not found.",
	"already_registered": "A registration for this email or user already exists.",
	"conflict":           "Another valid registration exists for the same user or email.",
	"not_withdrawable":   "This registration can no longer be withdrawn.",
	"invalid_checkin":    "Only complete or unpaid registrations can be checked in.",
	"ticket_disabled":    "Tickets are not enabled for this form.",
	"file_not_found":     "No stored file matches this link.",
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	msg, ok := errText[code]
	if !ok {
		msg = code
	}
	writeJSON(w, status, map[string]string{"error": code, "message": msg})
}

func Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
