package main

import (
	"log"
	"net/http"
	"os"

	"github.com/confreg/confreg/internal/db"
	"github.com/confreg/confreg/internal/events"
	"github.com/confreg/confreg/internal/models"
	"github.com/confreg/confreg/internal/web"
)

func main() {
	if err := db.Init(getEnv("DB_PATH", "confreg.db")); err != nil {
		log.Fatalf("db init: %v", err)
	}

	// Audit trail for lifecycle transitions; consumers hang off this hook.
	events.OnStateChange = func(reg *models.Registration, previous models.RegistrationState) {
		log.Printf("registration #%d (%s): state %s -> %s", reg.FriendlyID, reg.Email, previous, reg.State)
	}

	r := web.Router()

	addr := getEnv("ADDR", ":8080")
	log.Printf("confreg listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
