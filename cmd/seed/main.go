package main

import (
	"context"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"ai-tutor-be/internal/pkg/logger"
	"ai-tutor-be/internal/repository/unitofwork"
	"ai-tutor-be/internal/service"
	"ai-tutor-be/pkg/database"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("Seeding Persona Catalog...")

	uowFactory := unitofwork.NewRepositoryFactory(db)
	personaService := service.NewPersonaService(uowFactory, logger.NewIsolatedLogger("logs/seed.log"))

	if err := personaService.SeedDefaults(context.Background()); err != nil {
		color.Red("Persona seeding failed: %v", err)
		os.Exit(1)
	}

	for _, p := range service.DefaultPersonas {
		color.Green("Upserted persona: %s (%s)", p.DisplayName, p.Key)
	}

	color.Cyan("Persona seeding completed!")
}
