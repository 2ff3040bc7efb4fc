package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gosheet/app"
	"gosheet/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting gosheet server on port %s", appConfig.Server.Port)
	if err := app.Serve(ctx, appConfig); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
