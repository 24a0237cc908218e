package handlers

import (
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/confreg/confreg/internal/db"
	svc "github.com/confreg/confreg/internal/services"
)

// GET /api/admin/events/{id}/registrations.csv
func AdminRegistrationsCSV(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, "event_not_found")
		return
	}
	regs, err := svc.GetAllForEvent(db.Conn(), uint(eventID))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"friendly_id", "last_name", "first_name", "email", "state", "price", "checked_in"})
	for i := range regs {
		reg := &regs[i]
		_ = cw.Write([]string{
			strconv.FormatUint(uint64(reg.FriendlyID), 10),
			reg.LastName,
			reg.FirstName,
			reg.Email,
			reg.State.String(),
			svc.Price(reg).StringFixed(2),
			strconv.FormatBool(reg.CheckedIn),
		})
	}
	cw.Flush()
}
