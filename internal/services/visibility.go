package services

import (
	"time"

	"github.com/confreg/confreg/internal/models"
)

// VisibilityBeforeOverride merges the form's two publication modes with the
// registrant's consent. Requires Form to be loaded.
//
// The participants mode dominates: hide_all hides from everyone no matter
// what, show_all guarantees at least participant visibility, and
// show_with_consent leaves the decision to the registrant (capped by the
// public mode).
func VisibilityBeforeOverride(reg *models.Registration) models.Visibility {
	form := &reg.Form
	if form.PublishRegistrationsParticipants == models.PublishHideAll {
		return models.VisibilityNobody
	}
	consent := reg.ConsentToPublish
	if form.PublishRegistrationsParticipants == models.PublishShowAll {
		switch form.PublishRegistrationsPublic {
		case models.PublishHideAll:
			return models.VisibilityParticipants
		case models.PublishShowAll:
			return models.VisibilityAll
		default: // show_with_consent
			return models.MaxVisibility(consent, models.VisibilityParticipants)
		}
	}
	// participants mode: show_with_consent
	if form.PublishRegistrationsPublic == models.PublishHideAll {
		return models.MinVisibility(consent, models.VisibilityParticipants)
	}
	return consent
}

// Visibility applies the manager override on top of the resolved policy.
func Visibility(reg *models.Registration) models.Visibility {
	if reg.ParticipantHidden {
		return models.VisibilityNobody
	}
	return VisibilityBeforeOverride(reg)
}

// IsPublishable decides whether a viewer may see this registration on the
// participant list. isParticipant distinguishes fellow participants from the
// general public. Requires Form and Event to be loaded.
func IsPublishable(reg *models.Registration, isParticipant bool, now time.Time) bool {
	vis := Visibility(reg)
	if vis == models.VisibilityNobody || !reg.IsStatePublishable() {
		return false
	}
	if d := reg.Form.PublishRegistrationsDuration; d != nil && !reg.Event.EndDt.Add(*d).After(now) {
		return false
	}
	switch vis {
	case models.VisibilityAll:
		return true
	case models.VisibilityParticipants:
		return isParticipant
	}
	return false
}
