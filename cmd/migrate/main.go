// Package main applies the embedded feedback schema migrations and exits.
package main

import (
	"log"

	"github.com/tsgfeedback/feedback-api/config"
	"github.com/tsgfeedback/feedback-api/db"
	"github.com/tsgfeedback/feedback-api/logger"
)

func main() {
	logger.InitLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Store.Driver != config.StoreDriverPostgres {
		log.Fatalf("Migrations require STORE_DRIVER=%s, got %q", config.StoreDriverPostgres, cfg.Store.Driver)
	}

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations complete")
}
