package services

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/confreg/confreg/internal/db"
	"github.com/confreg/confreg/internal/models"
)

// openTestDB returns an isolated in-file SQLite database in a temp directory.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir := t.TempDir()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

// newTestReg builds a fully hydrated in-memory aggregate. payment turns on
// the event's payment feature AND gives the registration a nonzero price;
// moderation enables the form's approval gate.
func newTestReg(state models.RegistrationState, payment, moderation bool) *models.Registration {
	base := decimal.Zero
	if payment {
		base = decimal.NewFromInt(10)
	}
	return &models.Registration{
		State:     state,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		BasePrice: base,
		Currency:  "EUR",
		Event:     models.Event{HasPaymentFeature: payment},
		Form:      models.RegistrationForm{ModerationEnabled: moderation},
	}
}
