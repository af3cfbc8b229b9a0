package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/inneranimal/rescue-api/internal/config"
	"github.com/inneranimal/rescue-api/internal/database"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Object storage (optional for the check)
	var store services.BucketChecker
	if client, err := storage.NewClient(context.Background(), cfg); err == nil {
		store = client
	} else {
		log.Printf("Storage client unavailable: %v", err)
	}

	// Perform health check
	result := services.HealthCheck(cfg, db, store)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
