package main

import (
	"log"

	"github.com/blaisecz/sleep-bot/internal/config"
	"github.com/blaisecz/sleep-bot/internal/seed"
)

func main() {
	cfg := config.Load()

	db, err := config.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seed completed!")
	log.Println("Sample chat ids for testing: 100001 (en), 100002 (ru), 100003 (et, not onboarded)")
}
