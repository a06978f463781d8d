package main

import (
	"context"
	"flag"
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
	"github.com/localnerve/clientsdb/internal/auth"
	"github.com/localnerve/clientsdb/internal/config"
	"github.com/localnerve/clientsdb/internal/database"
	"github.com/localnerve/clientsdb/internal/handlers"
	"github.com/localnerve/clientsdb/internal/logging"
	"github.com/localnerve/clientsdb/internal/middleware"
	"github.com/localnerve/clientsdb/internal/repository"
	"github.com/localnerve/clientsdb/internal/services"
	"github.com/localnerve/clientsdb/internal/utils"

	_ "github.com/localnerve/clientsdb/docs/api" // Swagger docs
)

// @title ClientsDB API
// @version 1.0.0
// @description Client, project and employee management service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/clientsdb
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.basic BasicAuth

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	bootLog := logging.New("info", "text")
	if err := config.LoadEnvFile(envFilename); err != nil {
		bootLog.Fatalf("Failed to load environment: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	// Connect to database
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var tokens *auth.TokenIssuer
	if cfg.TokensEnabled() {
		tokens = auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	} else {
		log.Info("JWT_SECRET not set, bearer tokens disabled")
	}

	store := repository.NewStore(db)
	svc := services.New(store, auth.NewBcryptHasher(cfg.BcryptCost), tokens, log)

	if cfg.BootstrapAdminUsername != "" {
		if err := svc.Auth.EnsureAdmin(context.Background(), cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
			log.Fatalf("Failed to create bootstrap admin: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: utils.ErrorHandler(log),
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: log.Writer()}))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("clientsdb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst, log)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(10*time.Minute, stopCleanup)
	defer close(stopCleanup)

	handlers.SetupRoutes(app, svc, limiter, &handlers.HealthHandler{Config: cfg, DB: db, Log: log})

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.WithField("port", cfg.Port).Info("Starting server")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Info("Server stopped")
}
