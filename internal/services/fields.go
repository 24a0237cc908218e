package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/confreg/confreg/internal/models"
)

// Field pricing/rendering config, stored as JSON on FormField.Data.
// Which keys matter depends on the input type.
type fieldConfig struct {
	Price                    float64        `json:"price"`
	PricePerPerson           float64        `json:"price_per_person"`
	PersonsCountAgainstLimit bool           `json:"persons_count_against_limit"`
	Choices                  []choiceConfig `json:"choices"`
}

type choiceConfig struct {
	ID      string  `json:"id"`
	Caption string  `json:"caption"`
	Price   float64 `json:"price"`
}

// Submitted payload for a choice field.
type choiceValue struct {
	Choice string `json:"choice"`
	Slots  int    `json:"slots"`
}

// Submitted payload for one accompanying person.
type personValue struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (f *fieldConfig) choice(id string) *choiceConfig {
	for i := range f.Choices {
		if f.Choices[i].ID == id {
			return &f.Choices[i]
		}
	}
	return nil
}

func parseFieldConfig(field *models.FormField) fieldConfig {
	var cfg fieldConfig
	if len(field.Data) > 0 {
		_ = json.Unmarshal(field.Data, &cfg)
	}
	return cfg
}

// EntryPrice computes the charge one data entry adds to the total.
// Requires Field to be loaded.
func EntryPrice(d *models.RegistrationData) decimal.Decimal {
	cfg := parseFieldConfig(&d.Field)
	switch d.Field.InputType {
	case "checkbox":
		var checked bool
		if json.Unmarshal(d.Data, &checked) == nil && checked {
			return decimalFromFloat(cfg.Price)
		}
	case "choice":
		var val choiceValue
		if json.Unmarshal(d.Data, &val) != nil {
			return decimal.Zero
		}
		c := cfg.choice(val.Choice)
		if c == nil {
			return decimal.Zero
		}
		slots := val.Slots
		if slots < 1 {
			slots = 1
		}
		return decimalFromFloat(c.Price).Mul(decimal.NewFromInt(int64(slots)))
	case "accompanying_persons":
		var persons []personValue
		if json.Unmarshal(d.Data, &persons) != nil {
			return decimal.Zero
		}
		return decimalFromFloat(cfg.PricePerPerson).Mul(decimal.NewFromInt(int64(len(persons))))
	}
	return decimal.Zero
}

// FriendlyData renders an entry's payload for humans, or in a plainer form
// for search indexing. Requires Field to be loaded.
func FriendlyData(d *models.RegistrationData, forSearch bool) string {
	cfg := parseFieldConfig(&d.Field)
	switch d.Field.InputType {
	case "checkbox":
		var checked bool
		_ = json.Unmarshal(d.Data, &checked)
		if checked {
			return "yes"
		}
		return "no"
	case "choice":
		var val choiceValue
		if json.Unmarshal(d.Data, &val) != nil {
			return ""
		}
		c := cfg.choice(val.Choice)
		if c == nil {
			return ""
		}
		if forSearch {
			return strings.ToLower(c.Caption)
		}
		if val.Slots > 1 {
			return c.Caption + " (x" + strconv.Itoa(val.Slots) + ")"
		}
		return c.Caption
	case "accompanying_persons":
		var persons []personValue
		if json.Unmarshal(d.Data, &persons) != nil {
			return ""
		}
		names := make([]string, 0, len(persons))
		for _, p := range persons {
			names = append(names, strings.TrimSpace(p.FirstName+" "+p.LastName))
		}
		s := strings.Join(names, ", ")
		if forSearch {
			return strings.ToLower(s)
		}
		return s
	case "file":
		return d.Filename
	default:
		var s string
		if json.Unmarshal(d.Data, &s) == nil {
			if forSearch {
				return strings.ToLower(s)
			}
			return s
		}
		return ""
	}
}

// AccompanyingPersons flattens the person lists from all accompanying-person
// fields that are still part of the form.
func AccompanyingPersons(reg *models.Registration) []string {
	var out []string
	for i := range reg.Data {
		d := &reg.Data[i]
		if d.Field.InputType != "accompanying_persons" || d.Field.IsDeleted {
			continue
		}
		var persons []personValue
		if json.Unmarshal(d.Data, &persons) != nil {
			continue
		}
		for _, p := range persons {
			out = append(out, strings.TrimSpace(p.FirstName+" "+p.LastName))
		}
	}
	return out
}

// OccupiedSlots counts the registrant plus any accompanying persons on
// fields configured to count against the event limit.
func OccupiedSlots(reg *models.Registration) int {
	n := 1
	for i := range reg.Data {
		d := &reg.Data[i]
		if d.Field.InputType != "accompanying_persons" || d.Field.IsDeleted {
			continue
		}
		cfg := parseFieldConfig(&d.Field)
		if !cfg.PersonsCountAgainstLimit {
			continue
		}
		var persons []personValue
		if json.Unmarshal(d.Data, &persons) == nil {
			n += len(persons)
		}
	}
	return n
}
