package main

import (
	"context"
	"log"
	"time"

	"github.com/inkflow/inkflow/internal/router"
	"github.com/inkflow/inkflow/internal/storage"
	"github.com/inkflow/inkflow/pkg/config"
	"github.com/inkflow/inkflow/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := storage.NewMinIOClient(ctx, cfg.MinIO)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	e := echo.New()
	e.Validator = validators.NewValidator()

	if err := router.SetupRoutes(e, db, store, cfg); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	log.Printf("Starting server on port %s", cfg.Port)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
