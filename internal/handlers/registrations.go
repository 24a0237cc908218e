package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/confreg/confreg/internal/db"
	"github.com/confreg/confreg/internal/models"
	svc "github.com/confreg/confreg/internal/services"
)

type regDataView struct {
	FieldID      uint   `json:"field_id"`
	Title        string `json:"title"`
	FriendlyData string `json:"friendly_data"`
	Price        string `json:"price,omitempty"`
	FileURL      string `json:"file_url,omitempty"`
}

type registrationView struct {
	ID               uint          `json:"id"`
	FriendlyID       uint          `json:"friendly_id"`
	Token            string        `json:"token,omitempty"`
	FullName         string        `json:"full_name"`
	Email            string        `json:"email"`
	State            string        `json:"state"`
	Price            string        `json:"price"`
	BasePrice        string        `json:"base_price"`
	PriceAdjustment  string        `json:"price_adjustment"`
	PaidDt           *time.Time    `json:"paid_dt,omitempty"`
	CheckedIn        bool          `json:"checked_in"`
	CheckedInDt      *time.Time    `json:"checked_in_dt,omitempty"`
	RejectionReason  string        `json:"rejection_reason,omitempty"`
	Visibility       string        `json:"visibility"`
	ConsentToPublish string        `json:"consent_to_publish"`
	CanBeModified    bool          `json:"can_be_modified"`
	CanBeWithdrawn   bool          `json:"can_be_withdrawn"`
	SubmittedDt      time.Time     `json:"submitted_dt"`
	Data             []regDataView `json:"data,omitempty"`
}

func regView(reg *models.Registration, now time.Time) registrationView {
	v := registrationView{
		ID:               reg.ID,
		FriendlyID:       reg.FriendlyID,
		Token:            reg.UUID,
		FullName:         reg.FullName(),
		Email:            reg.Email,
		State:            reg.State.String(),
		Price:            svc.RenderPrice(reg),
		BasePrice:        svc.RenderBasePrice(reg),
		PriceAdjustment:  svc.RenderPriceAdjustment(reg),
		PaidDt:           reg.PaymentDt(),
		CheckedIn:        reg.CheckedIn,
		CheckedInDt:      reg.CheckedInDt,
		RejectionReason:  reg.RejectionReason,
		Visibility:       svc.Visibility(reg).String(),
		ConsentToPublish: reg.ConsentToPublish.String(),
		CanBeModified:    reg.CanBeModified(now),
		CanBeWithdrawn:   reg.CanBeWithdrawn(now),
		SubmittedDt:      reg.SubmittedDt,
	}
	for i := range reg.Data {
		d := &reg.Data[i]
		if d.Field.IsManagerOnly {
			continue
		}
		dv := regDataView{
			FieldID:      d.FieldID,
			Title:        d.Field.Title,
			FriendlyData: svc.FriendlyData(d, false),
		}
		if p := svc.EntryPrice(d); p.IsPositive() {
			dv.Price = svc.FormatCurrency(p, reg.Currency)
		}
		if d.HasFile() {
			dv.FileURL = svc.FileLocator(d)
		}
		v.Data = append(v.Data, dv)
	}
	return v
}

// GET /api/admin/registrations/{id}
func RegistrationShow(w http.ResponseWriter, r *http.Request) {
	reg, ok := findRegistration(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// GET /api/registrations/token/{token}
//
// Unauthenticated access via the unguessable token; this is how registrants
// without an account reach their own registration.
func RegistrationByToken(w http.ResponseWriter, r *http.Request) {
	reg, err := svc.LoadRegistrationByToken(db.Conn(), chi.URLParam(r, "token"))
	if err != nil || reg.IsDeleted {
		writeErr(w, http.StatusNotFound, "reg_not_found")
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// POST /api/registrations/token/{token}/withdraw
func WithdrawByToken(w http.ResponseWriter, r *http.Request) {
	reg, err := svc.LoadRegistrationByToken(db.Conn(), chi.URLParam(r, "token"))
	if err != nil || reg.IsDeleted {
		writeErr(w, http.StatusNotFound, "reg_not_found")
		return
	}
	if err := svc.Withdraw(db.Conn(), reg); err != nil {
		writeErr(w, http.StatusUnprocessableEntity, "not_withdrawable")
		return
	}
	writeJSON(w, http.StatusOK, regView(reg, time.Now().UTC()))
}

// findRegistration resolves {id} and loads the aggregate, writing the error
// response itself when that fails.
func findRegistration(w http.ResponseWriter, r *http.Request) (*models.Registration, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, "reg_not_found")
		return nil, false
	}
	reg, err := svc.LoadRegistration(db.Conn(), uint(id))
	if err != nil {
		writeErr(w, http.StatusNotFound, "reg_not_found")
		return nil, false
	}
	return reg, true
}
