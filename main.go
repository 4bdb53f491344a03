package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"resep/internal/handlers"
	"resep/internal/middleware"
	"resep/internal/models"
	"resep/internal/repositories"
	"resep/internal/services"
	"resep/pkg/imagestore"
	"resep/pkg/rabbitmq"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("DATABASE_DSN", "") // Postgres DSN; empty falls back to a local SQLite file
	viper.SetDefault("SQLITE_PATH", "resep.db")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("RABBITMQ_URL", "") // Empty disables event publishing
	viper.AutomaticEnv()                 // Load environment variables

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	databaseDSN := viper.GetString("DATABASE_DSN")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")
	uploadDir := viper.GetString("UPLOAD_DIR")

	// --- Initialize Database (GORM) ---
	var db *gorm.DB
	var err error
	if databaseDSN != "" {
		db, err = gorm.Open(postgres.Open(databaseDSN), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(&models.User{}, &models.Tag{}, &models.Ingredient{}, &models.Recipe{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Image Store ---
	images, err := imagestore.NewStore(uploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize image store: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, recipe events disabled")
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	tagRepo := repositories.NewGORMTagRepository(db)
	ingredientRepo := repositories.NewGORMIngredientRepository(db)
	recipeRepo := repositories.NewGORMRecipeRepository(db)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	userService := services.NewUserService(userRepo, tagRepo, ingredientRepo, recipeRepo, images)
	tagService := services.NewTagService(tagRepo)
	ingredientService := services.NewIngredientService(ingredientRepo)
	recipeService := services.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, images, events)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	tagHandler := handlers.NewAttrHandler(tagService, "tags")
	ingredientHandler := handlers.NewAttrHandler(ingredientService, "ingredients")
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger

	// --- API Routes ---
	apiV1 := app.Group("/api/v1")

	// Public routes: registration and token issuance
	authHandler.RegisterRoutes(apiV1)
	userHandler.RegisterRoutes(apiV1)

	// Protected routes (require a bearer token)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	userHandler.RegisterMeRoutes(protectedRoutes)
	tagHandler.RegisterRoutes(protectedRoutes)
	ingredientHandler.RegisterRoutes(protectedRoutes)
	recipeHandler.RegisterRoutes(protectedRoutes)

	// Uploaded recipe images are served from the upload directory so the
	// stored logical paths resolve as URLs.
	app.Static("/uploads", uploadDir)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
