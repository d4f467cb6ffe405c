package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shoemart/internal/config"
	"shoemart/internal/database"
	"shoemart/internal/repositories"
	"shoemart/internal/services"
	"shoemart/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// --- Database ---
	stores, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.SeedDatabase {
		if _, err := database.Seed(ctx, repositories.NewProductRepository(stores.Products)); err != nil {
			log.Printf("Error seeding database: %v", err)
		}
	}

	// --- RabbitMQ (optional) ---
	var publisher services.MessagePublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, contact notifications disabled: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient

			err := mqClient.ConsumeMessageEvents(func(event rabbitmq.MessageReceivedEvent) error {
				log.Printf("New contact message %s from %s <%s> about %q", event.ID, event.Name, event.Email, event.Topic)
				return nil
			})
			if err != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", err)
			}
		}
	}

	// --- HTTP server ---
	app := NewApp(AppOptions{
		Stores:               stores,
		Publisher:            publisher,
		ContactRatePerMinute: cfg.ContactRatePerMinute,
		ContactRateBurst:     cfg.ContactRateBurst,
		RequestLogging:       true,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", cfg.AppPort)
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
