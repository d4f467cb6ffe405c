package main

import (
	"time"

	"shoemart/internal/database"
	"shoemart/internal/handlers"
	"shoemart/internal/middleware"
	"shoemart/internal/repositories"
	"shoemart/internal/services"
	"shoemart/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// AppOptions carries everything NewApp needs to build the HTTP server.
type AppOptions struct {
	Stores               *database.Stores
	Publisher            services.MessagePublisher // may be nil
	ContactRatePerMinute int
	ContactRateBurst     int
	RequestLogging       bool
}

// NewApp builds the Fiber application with every route registered.
func NewApp(opts AppOptions) *fiber.App {
	productRepo := repositories.NewProductRepository(opts.Stores.Products)
	messageRepo := repositories.NewMessageRepository(opts.Stores.Messages)

	catalogService := services.NewCatalogService(productRepo)
	contactService := services.NewContactService(messageRepo, opts.Publisher)

	productHandler := handlers.NewProductHandler(catalogService)
	contactHandler := handlers.NewContactHandler(contactService,
		middleware.RateLimit(opts.ContactRatePerMinute, opts.ContactRateBurst))

	app := fiber.New(fiber.Config{
		AppName:      "ShoeMart",
		ErrorHandler: middleware.ErrorHandler,
	})

	if opts.RequestLogging {
		app.Use(logger.New())
	}
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":    "healthy",
			"time":      time.Now().Format(time.RFC3339),
			"publisher": opts.Publisher != nil,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	productHandler.RegisterRoutes(api)
	contactHandler.RegisterRoutes(api)

	return app
}
