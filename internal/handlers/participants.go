package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/confreg/confreg/internal/db"
	svc "github.com/confreg/confreg/internal/services"
)

type participantRow struct {
	FriendlyID uint   `json:"friendly_id"`
	FullName   string `json:"full_name"`
	Visibility string `json:"visibility"`
}

// GET /api/events/{id}/participants?viewer=participant|public
//
// The viewer class decides which side of the publication policy applies:
// the same registration can be listed for fellow participants but hidden
// from the public, or the other way round.
func ParticipantsList(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErr(w, http.StatusNotFound, "event_not_found")
		return
	}
	isParticipant := r.URL.Query().Get("viewer") == "participant"

	regs, err := svc.GetAllForEvent(db.Conn(), uint(eventID))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	rows := make([]participantRow, 0, len(regs))
	for i := range regs {
		reg := &regs[i]
		if !svc.IsPublishable(reg, isParticipant, now) {
			continue
		}
		rows = append(rows, participantRow{
			FriendlyID: reg.FriendlyID,
			FullName:   reg.FullName(),
			Visibility: svc.Visibility(reg).String(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"participants": rows})
}
