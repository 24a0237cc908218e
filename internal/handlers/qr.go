package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/confreg/confreg/internal/db"
	svc "github.com/confreg/confreg/internal/services"
)

// GET /tickets/{token}.png
//
// Encodes a check-in URL around the ticket token so scanning the ticket
// opens the check-in action directly.
func TicketQR(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.NotFound(w, r)
		return
	}
	reg, err := svc.LoadRegistrationByTicket(db.Conn(), token)
	if err != nil || reg.IsDeleted {
		http.NotFound(w, r)
		return
	}
	if !reg.Form.TicketQR {
		writeErr(w, http.StatusForbidden, "ticket_disabled")
		return
	}

	url := "http://" + r.Host + "/checkin?ticket=" + token
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
