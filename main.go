package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/PrepGrid-2025/testing-service/internal/config"
	"github.com/PrepGrid-2025/testing-service/internal/events"
	"github.com/PrepGrid-2025/testing-service/internal/handlers"
	"github.com/PrepGrid-2025/testing-service/internal/repositories/casdoor"
	"github.com/PrepGrid-2025/testing-service/internal/repositories/postgres"
	"github.com/PrepGrid-2025/testing-service/internal/services"
	"github.com/PrepGrid-2025/testing-service/internal/sessions"
	"github.com/PrepGrid-2025/testing-service/internal/utils"
	"github.com/PrepGrid-2025/testing-service/internal/validator"
	"github.com/PrepGrid-2025/testing-service/pkg"
)

const sessionCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Redis: %v", err)
		}
	}

	// Session store: Redis when available, otherwise the database table.
	var sessionStore sessions.Store
	if redisClient != nil {
		sessionStore = sessions.NewRedisStore(redisClient, cfg.SessionTTL)
	} else {
		gormStore := sessions.NewGormStore(db, cfg.SessionTTL)
		sessionStore = gormStore
		go runSessionCleanup(gormStore, slogLogger)
	}

	// Event publisher: Kafka when brokers are configured, otherwise a no-op.
	var publisher events.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize Kafka publisher: %v", err)
		}
	} else {
		publisher = events.NoopEventPublisher{}
	}

	// Identity provider
	provider := casdoor.NewIdentityProvider(casdoor.CasdoorConfig{
		Endpoint:         cfg.Casdoor.Endpoint,
		ClientID:         cfg.Casdoor.ClientID,
		ClientSecret:     cfg.Casdoor.ClientSecret,
		Certificate:      cfg.Casdoor.Cert,
		OrganizationName: cfg.Casdoor.Organization,
		ApplicationName:  cfg.Casdoor.Application,
	})

	// Initialize repositories
	repo := postgres.NewPostgreSQLRepository(db)

	// Initialize validator
	validator := validator.New()

	// Initialize services
	serviceManager := services.NewDefaultServiceManager(db, repo, slogLogger, validator, publisher, cfg.AdminEmails)
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, provider, sessionStore, validator, logger, cfg)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// The service sits behind a TLS-terminating proxy in production; client
	// addresses and the https scheme come from forwarded headers, so only
	// the configured proxies may set them.
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatalf("Failed to set trusted proxies: %v", err)
	}

	// Setup middleware
	handlers.SetupMiddleware(router, logger, cfg.FrontendURL)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

// runSessionCleanup periodically reaps expired sessions from the database
// store. The Redis store expires keys natively and does not need this.
func runSessionCleanup(store *sessions.GormStore, logger *slog.Logger) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		removed, err := store.Cleanup(context.Background())
		if err != nil {
			logger.Error("session cleanup failed", "error", err)
			continue
		}
		if removed > 0 {
			logger.Info("expired sessions removed", "count", removed)
		}
	}
}
