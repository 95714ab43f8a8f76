// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/satyamraj1643/pine/internal/application/container"
	"github.com/satyamraj1643/pine/internal/infrastructure/email"
	"github.com/satyamraj1643/pine/internal/infrastructure/media"
	"github.com/satyamraj1643/pine/internal/infrastructure/observability/logging"
	"github.com/satyamraj1643/pine/internal/infrastructure/persistence/database"
	userrepo "github.com/satyamraj1643/pine/internal/infrastructure/persistence/user"
	"github.com/satyamraj1643/pine/internal/infrastructure/security"
	"github.com/satyamraj1643/pine/internal/presentation/http/server"
	"github.com/satyamraj1643/pine/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found -- config defaults will be used")
	}
	setupLogging()

	start := time.Now().UTC()

	_, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Channeled logger
	logger, err := logging.NewChanneledLogger(nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Pine identity service starting")

	// Ephemeral secret keeps a dev instance working; sessions will not
	// survive a restart without JWT_SECRET set.
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		config.JWTSecret = secret
		logger.Startup().Warn("JWT_SECRET not set - generated an ephemeral session secret")
	}

	// Step 2: Database connection + schema
	logger.Startup().Info("Connecting to database", "driver", config.DBDriver)
	db, err := database.NewConnectionWithLogger(config.DBDriver, config.DBPath, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := userrepo.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	users := userrepo.NewSQLUserRepository(db, logger)

	// Step 3: Email service (noop when no API key is configured)
	var emailSvc email.Service
	if os.Getenv("RESEND_API_KEY") != "" {
		emailSvc, err = email.NewService()
		if err != nil {
			return fmt.Errorf("failed to initialize email service: %w", err)
		}
		logger.Startup().Info("Email service initialized")
	} else {
		emailSvc = email.NoopService{}
		logger.Startup().Warn("RESEND_API_KEY not set - verification emails will be discarded")
	}

	// Step 4: Media pipeline
	avatars := media.NewAvatarProcessor(config.MediaDir, config.AvatarMaxPixels)

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(users, emailSvc, avatars, logger)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Live session broadcaster
	go appContainer.Broadcaster.Run()
	logger.Startup().Info("Session broadcaster started", "interval", config.BroadcastInterval)

	// Step 7: HTTP server
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port)

	// Step 8: Graceful shutdown wiring
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", config.Port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}
