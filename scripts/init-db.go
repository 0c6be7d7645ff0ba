package main

import (
	"context"
	"flag"
	"fmt"
	"laundry_manager/internal/config"
	"laundry_manager/internal/database"
	"laundry_manager/internal/migrations"
	"laundry_manager/internal/models"
	"laundry_manager/internal/repository"
	"laundry_manager/internal/services"
	"log"
)

func main() {
	resetTickets := flag.Int64("reset-ticket-counter", -1, "set the ticket counter so the next ticket gets value+1")
	flag.Parse()

	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := migrations.RunMigrations(db, cfg); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if *resetTickets >= 0 {
		admin := services.NewAdminService(nil, repository.NewCounterRepository(db))
		if err := admin.ResetCounter(context.Background(), models.TicketCounter, *resetTickets); err != nil {
			log.Fatal("Failed to reset ticket counter:", err)
		}
	}

	fmt.Println("Database initialized successfully!")
}
