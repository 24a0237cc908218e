package db

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/confreg/confreg/internal/models"
)

var conn *gorm.DB

func Init(dsn string) error {
	var err error
	conn, err = gorm.Open(sqlite.Open(dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(conn); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	log.Println("database ready (sqlite)")
	return nil
}

func Conn() *gorm.DB {
	return conn
}

// Migrate creates the schema plus the partial unique indexes GORM can't
// express in struct tags. Uniqueness of (form,user) and (form,email) only
// holds among non-deleted, non-cancelled rows, and friendly ids are only
// unique among non-deleted rows of an event.
func Migrate(g *gorm.DB) error {
	if err := g.AutoMigrate(
		&models.Event{},
		&models.User{},
		&models.RegistrationForm{},
		&models.FormField{},
		&models.Registration{},
		&models.RegistrationData{},
		&models.RegistrationTag{},
		&models.PaymentTransaction{},
		&models.Invitation{},
	); err != nil {
		return err
	}

	cancelled := "state IN (3, 4)" // rejected, withdrawn
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_reg_event_friendly_id
		   ON registrations(event_id, friendly_id) WHERE NOT is_deleted`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_reg_form_user
		   ON registrations(registration_form_id, user_id)
		   WHERE NOT is_deleted AND NOT (` + cancelled + `) AND user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_reg_form_email
		   ON registrations(registration_form_id, email)
		   WHERE NOT is_deleted AND NOT (` + cancelled + `)`,
		`CREATE INDEX IF NOT EXISTS idx_reg_form_state ON registrations(registration_form_id, state)`,
	}
	for _, s := range stmts {
		if err := g.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
