package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/confreg/confreg/internal/models"
)

func choiceEntry() models.RegistrationData {
	return models.RegistrationData{
		Field: models.FormField{
			Title:     "Dinner",
			InputType: "choice",
			Data: datatypes.JSON([]byte(`{"choices": [
				{"id": "veg", "caption": "Vegetarian", "price": 12.5},
				{"id": "std", "caption": "Standard", "price": 15}
			]}`)),
		},
		Data: datatypes.JSON([]byte(`{"choice": "veg", "slots": 2}`)),
	}
}

func TestEntryPriceChoice(t *testing.T) {
	entry := choiceEntry()
	if got := EntryPrice(&entry); !got.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("choice price: want 25.00, got %s", got)
	}

	entry.Data = datatypes.JSON([]byte(`{"choice": "std"}`)) // no slots -> 1
	if got := EntryPrice(&entry); !got.Equal(decimal.RequireFromString("15")) {
		t.Errorf("choice price: want 15, got %s", got)
	}

	entry.Data = datatypes.JSON([]byte(`{"choice": "unknown"}`))
	if got := EntryPrice(&entry); !got.Equal(decimal.Zero) {
		t.Errorf("unknown choice: want 0, got %s", got)
	}
}

func TestEntryPriceAccompanyingPersons(t *testing.T) {
	entry := models.RegistrationData{
		Field: models.FormField{
			InputType: "accompanying_persons",
			Data:      datatypes.JSON([]byte(`{"price_per_person": 5, "persons_count_against_limit": true}`)),
		},
		Data: datatypes.JSON([]byte(`[{"first_name":"Ada","last_name":"Byron"},{"first_name":"Alan","last_name":"Turing"}]`)),
	}
	if got := EntryPrice(&entry); !got.Equal(decimal.RequireFromString("10")) {
		t.Errorf("accompanying price: want 10, got %s", got)
	}
}

func TestFriendlyData(t *testing.T) {
	entry := choiceEntry()
	if got := FriendlyData(&entry, false); got != "Vegetarian (x2)" {
		t.Errorf("friendly: got %q", got)
	}
	if got := FriendlyData(&entry, true); got != "vegetarian" {
		t.Errorf("search: got %q", got)
	}

	text := models.RegistrationData{
		Field: models.FormField{InputType: "text"},
		Data:  datatypes.JSON([]byte(`"Hello World"`)),
	}
	if got := FriendlyData(&text, false); got != "Hello World" {
		t.Errorf("text friendly: got %q", got)
	}
	if got := FriendlyData(&text, true); got != "hello world" {
		t.Errorf("text search: got %q", got)
	}

	checked := models.RegistrationData{
		Field: models.FormField{InputType: "checkbox"},
		Data:  datatypes.JSON([]byte(`true`)),
	}
	if got := FriendlyData(&checked, false); got != "yes" {
		t.Errorf("checkbox friendly: got %q", got)
	}
}

func TestOccupiedSlots(t *testing.T) {
	reg := newTestReg(models.StateComplete, false, false)
	reg.Data = []models.RegistrationData{
		{
			Field: models.FormField{
				InputType: "accompanying_persons",
				Data:      datatypes.JSON([]byte(`{"persons_count_against_limit": true}`)),
			},
			Data: datatypes.JSON([]byte(`[{"first_name":"Ada"},{"first_name":"Alan"}]`)),
		},
		{
			// not counted against the limit
			Field: models.FormField{
				InputType: "accompanying_persons",
				Data:      datatypes.JSON([]byte(`{}`)),
			},
			Data: datatypes.JSON([]byte(`[{"first_name":"Grace"}]`)),
		},
	}
	if got := OccupiedSlots(reg); got != 3 {
		t.Errorf("occupied slots: want 3, got %d", got)
	}
	if got := len(AccompanyingPersons(reg)); got != 3 {
		t.Errorf("accompanying persons: want 3, got %d", got)
	}
}
