// migrate_gorm.go - Run this file to apply GORM migrations without starting the server
// Usage: go run migrate_gorm.go

//go:build ignore

package main

import (
	"log"

	"github.com/sahilchouksey/studynotion-api/config"
	"github.com/sahilchouksey/studynotion-api/database"
)

func main() {
	log.Println("=== StudyNotion GORM Migration ===")

	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded, using environment variables")
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed:", err)
	}

	log.Printf("✅ Migrated %d tables successfully!", len(database.Models()))
}
