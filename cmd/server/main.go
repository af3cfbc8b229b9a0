package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/stripe/stripe-go/v78"

	"github.com/inneranimal/rescue-api/internal/ai"
	"github.com/inneranimal/rescue-api/internal/config"
	"github.com/inneranimal/rescue-api/internal/database"
	"github.com/inneranimal/rescue-api/internal/handlers"
	"github.com/inneranimal/rescue-api/internal/middleware"
	"github.com/inneranimal/rescue-api/internal/notify"
	"github.com/inneranimal/rescue-api/internal/services"
	"github.com/inneranimal/rescue-api/internal/storage"
	"github.com/inneranimal/rescue-api/internal/types"

	_ "github.com/inneranimal/rescue-api/docs/api" // Swagger docs
)

// @title InnerAnimal Rescue API
// @version 1.0.0
// @description Backend for the animal rescue site and the InnerAnimalMedia platform

// @contact.name API Support
// @contact.url https://github.com/inneranimal/rescue-api

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

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

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Object storage
	store, err := storage.NewClient(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}

	// Stripe
	stripe.Key = cfg.StripeSecretKey

	// LLM providers
	openaiClient := ai.NewOpenAIClient(cfg.OpenAIAPIKey)
	anthropicClient := ai.NewAnthropicClient(cfg.AnthropicAPIKey)

	// Email and analytics fanout
	notifier := notify.NewNotifier(cfg)

	// Create Fiber app
	// Body limit covers a full image upload batch
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
		BodyLimit:             210 << 20,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("rescue-api")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	animalHandler := &handlers.AnimalHandler{DB: db, Store: store}
	imageHandler := &handlers.ImageHandler{DB: db, Store: store}
	formsHandler := &handlers.FormsHandler{DB: db, Notifier: notifier}
	billingHandler := &handlers.BillingHandler{DB: db, Cfg: cfg}
	chatHandler := &handlers.ChatHandler{
		DB:        db,
		OpenAI:    openaiClient,
		Anthropic: anthropicClient,
		Resolve:   services.DefaultChatResolver(openaiClient, anthropicClient),
	}
	postsHandler := &handlers.PostsHandler{DB: db}
	uploadHandler := &handlers.UploadHandler{Store: store}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg, Store: store}

	// Health
	app.Get("/healthcheck", healthHandler.HealthCheck)

	// API routes under /api
	api := app.Group("/api")

	// Animals (public reads, admin mutations)
	api.Get("/animals", animalHandler.ListAnimals)
	api.Get("/animals/:id", animalHandler.GetAnimal)
	api.Post("/animals", middleware.AuthAdmin(cfg), animalHandler.CreateAnimal)
	api.Put("/animals/:id", middleware.AuthAdmin(cfg), animalHandler.UpdateAnimal)
	api.Delete("/animals/:id", middleware.AuthAdmin(cfg), animalHandler.DeleteAnimal)

	// Animal images
	api.Get("/animals/:id/images", imageHandler.ListImages)
	api.Post("/animals/:id/images", middleware.AuthAdmin(cfg), imageHandler.UploadImages)
	api.Patch("/animals/:id/images/:imageId/primary", middleware.AuthAdmin(cfg), imageHandler.SetPrimaryImage)
	api.Delete("/animals/:id/images/:imageId", middleware.AuthAdmin(cfg), imageHandler.DeleteImage)

	// Public forms
	api.Post("/forms/tnr-request", formsHandler.SubmitTNRRequest)
	api.Post("/forms/adoption-application", formsHandler.SubmitAdoptionApplication)
	api.Post("/contact", formsHandler.SubmitContact)

	// Admin analytics
	api.Get("/analytics", middleware.AuthAdmin(cfg), formsHandler.GetAnalytics)

	// Billing (webhook is verified by signature, not session)
	api.Post("/stripe/checkout", middleware.AuthUser(cfg), billingHandler.CreateCheckout)
	api.Post("/stripe/portal", middleware.AuthUser(cfg), billingHandler.CreatePortal)
	api.Post("/stripe/webhook", billingHandler.HandleWebhook)

	// Chat and AI proxies
	api.Post("/openai", middleware.AuthUser(cfg), chatHandler.OpenAIProxy)
	api.Post("/anthropic", middleware.AuthUser(cfg), chatHandler.AnthropicProxy)
	api.Post("/chat", middleware.AuthUser(cfg), chatHandler.SendMessage)
	api.Get("/conversations", middleware.AuthUser(cfg), chatHandler.ListConversations)
	api.Post("/conversations", middleware.AuthUser(cfg), chatHandler.CreateConversation)

	// Community
	api.Get("/posts", middleware.AuthUser(cfg), postsHandler.ListPosts)
	api.Post("/posts", middleware.AuthUser(cfg), postsHandler.CreatePost)
	api.Get("/video-rooms", middleware.AuthUser(cfg), postsHandler.ListVideoRooms)
	api.Post("/video-rooms", middleware.AuthUser(cfg), postsHandler.CreateVideoRoom)

	// User uploads
	api.Post("/uploads", middleware.AuthUser(cfg), uploadHandler.UploadFile)
	api.Post("/uploads/sign", middleware.AuthUser(cfg), uploadHandler.SignUpload)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Initialize Authorizer eagerly so the first authenticated request
	// doesn't pay the setup cost
	if err := services.InitAuthorizer(cfg, "http", "localhost:"+cfg.Port); err != nil {
		log.Printf("Authorizer initialization deferred: %v", err)
	}

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	switch e := err.(type) {
	case *fiber.Error:
		code = e.Code
		message = e.Message
	case *types.CustomError:
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
