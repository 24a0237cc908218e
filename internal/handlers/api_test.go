package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/confreg/confreg/internal/db"
	"github.com/confreg/confreg/internal/models"
	"github.com/confreg/confreg/internal/web"
)

// The handlers share the package-level db connection, so the whole API
// round-trip lives in one sequential test.
func TestRegistrationAPI(t *testing.T) {
	dir := t.TempDir()
	if err := db.Init(filepath.Join(dir, "api.db")); err != nil {
		t.Fatalf("db init: %v", err)
	}

	ev := models.Event{Title: "GopherCon", EndDt: time.Now().Add(48 * time.Hour)}
	db.Conn().Create(&ev)
	form := models.RegistrationForm{
		EventID:                          ev.ID,
		ModerationEnabled:                true,
		Currency:                         "EUR",
		PublishRegistrationsParticipants: models.PublishShowAll,
		PublishRegistrationsPublic:       models.PublishHideAll,
	}
	db.Conn().Create(&form)

	router := web.Router()
	admin := func(r *http.Request) *http.Request {
		r.Header.Set("Authorization", "Bearer admin123")
		return r
	}

	// submit a registration
	body := strings.NewReader(`{"email": "Jane@Example.com", "first_name": "Jane", "last_name": "Doe", "consent_to_publish": "participants"}`)
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/forms/%d/register", form.ID), body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: want 201, got %d: %s", rec.Code, rec.Body)
	}
	var created struct {
		ID    uint   `json:"id"`
		Email string `json:"email"`
		State string `json:"state"`
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Email != "jane@example.com" {
		t.Errorf("email: got %q", created.Email)
	}
	if created.State != "pending" {
		t.Errorf("state: want pending, got %q", created.State)
	}

	// registrant can fetch it by token without auth
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/registrations/token/"+created.Token, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("token fetch: want 200, got %d", rec.Code)
	}

	// pending registrations are not published
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/api/events/%d/participants?viewer=participant", ev.ID), nil))
	var listing struct {
		Participants []struct {
			FullName string `json:"full_name"`
		} `json:"participants"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &listing)
	if len(listing.Participants) != 0 {
		t.Fatalf("pending registration must not be listed: %+v", listing)
	}

	// admin actions need the token
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/api/admin/registrations/%d/approve", created.ID), nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("approve without token: want 401, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, admin(httptest.NewRequest("POST", fmt.Sprintf("/api/admin/registrations/%d/approve", created.ID), nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: want 200, got %d: %s", rec.Code, rec.Body)
	}
	var approved struct {
		State string `json:"state"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &approved)
	if approved.State != "complete" {
		t.Errorf("after approve: want complete, got %q", approved.State)
	}

	// now visible to participants, still hidden from the public
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/api/events/%d/participants?viewer=participant", ev.ID), nil))
	listing.Participants = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &listing)
	if len(listing.Participants) != 1 || listing.Participants[0].FullName != "Jane Doe" {
		t.Fatalf("participant listing wrong: %s", rec.Body)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", fmt.Sprintf("/api/events/%d/participants", ev.ID), nil))
	listing.Participants = nil
	_ = json.Unmarshal(rec.Body.Bytes(), &listing)
	if len(listing.Participants) != 0 {
		t.Fatalf("public viewer must not see the registration: %s", rec.Body)
	}

	// reject and reset bring it back to pending
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, admin(httptest.NewRequest("POST", fmt.Sprintf("/api/admin/registrations/%d/reject", created.ID),
		strings.NewReader(`{"reason": "incomplete"}`))))
	if rec.Code != http.StatusOK {
		t.Fatalf("reject: want 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, admin(httptest.NewRequest("POST", fmt.Sprintf("/api/admin/registrations/%d/reset", created.ID), nil)))
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: want 200, got %d: %s", rec.Code, rec.Body)
	}
	var reset struct {
		State           string `json:"state"`
		RejectionReason string `json:"rejection_reason"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &reset)
	if reset.State != "pending" || reset.RejectionReason != "" {
		t.Errorf("after reset: state %q reason %q", reset.State, reset.RejectionReason)
	}

	// duplicate registration for the same email is a 409
	body = strings.NewReader(`{"email": "jane@example.com", "first_name": "Jane", "last_name": "Doe"}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("POST", fmt.Sprintf("/api/forms/%d/register", form.ID), body))
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: want 409, got %d: %s", rec.Code, rec.Body)
	}
}
