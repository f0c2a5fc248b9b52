package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/streadway/amqp"

	"rentique/internal/config"
	"rentique/internal/database"
	"rentique/internal/handlers"
	"rentique/internal/middleware"
	"rentique/internal/repositories"
	"rentique/internal/services"
	"rentique/pkg/imagestore"
	"rentique/pkg/rabbitmq"
)

func main() {
	cfg := config.Load()

	// --- Database ---
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	// --- RabbitMQ ---
	// The broker carries order events and the image-cleanup queue.
	// Starting without it is allowed; the services skip event
	// publication with a log line.
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer mqClient.Close()
		}
	}

	// --- Image store ---
	var images services.ImageStore
	if cfg.ImageStoreURL != "" {
		images = imagestore.NewClient(imagestore.Config{
			BaseURL: cfg.ImageStoreURL,
			APIKey:  cfg.ImageStoreAPIKey,
			Folder:  cfg.ImageStoreFolder,
		})
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo, events, images)
	productService := services.NewProductService(productRepo, categoryRepo, events, images)
	orderService := services.NewOrderService(orderRepo, productRepo, events)

	// --- Handlers & middleware ---
	auth := middleware.NewAuth(authService)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New())

	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1, auth)
	categoryHandler.RegisterRoutes(apiV1, auth)
	productHandler.RegisterRoutes(apiV1, auth)
	orderHandler.RegisterRoutes(apiV1, auth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Image cleanup consumer ---
	// Remote deletes are fire-and-forget from the request path; this
	// consumer is their error channel. Failures are logged and the
	// message requeued, so a dangling remote asset is visible in the
	// logs instead of silently leaking.
	if mqClient != nil && images != nil {
		log.Println("Starting image cleanup consumer...")
		err := mqClient.Consume(rabbitmq.ImageCleanupQueue, func(msg amqp.Delivery) error {
			var task rabbitmq.ImageCleanupTask
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				log.Printf("Dropping malformed cleanup task: %v", err)
				return nil
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return images.Delete(ctx, task.PublicID)
		})
		if err != nil {
			log.Printf("Failed to start image cleanup consumer: %v", err)
		}
	}

	// --- Start HTTP server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
