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

	"github.com/OpenDataspace/portal/internal/auth"
	"github.com/OpenDataspace/portal/internal/config"
	"github.com/OpenDataspace/portal/internal/database"
	"github.com/OpenDataspace/portal/internal/document"
	"github.com/OpenDataspace/portal/internal/marketplace"
	"github.com/OpenDataspace/portal/internal/middleware"
	"github.com/OpenDataspace/portal/internal/notification"
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	slog.Info("configuration loaded successfully",
		"db_host", cfg.Database.Host,
		"db_port", cfg.Database.Port,
		"db_name", cfg.Database.Name,
		"db_sslmode", cfg.Database.SSLMode,
	)

	slog.Info("server configuration",
		"port", cfg.Server.Port,
		"storage_type", cfg.Storage.Type,
	)

	// Initialize database connection
	db, err := database.New(&cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Perform health check
	if err := database.HealthCheck(db); err != nil {
		log.Fatalf("database health check failed: %v", err)
	}

	// Initialize document storage
	storage, err := document.NewStorageFromConfig(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize document storage: %v", err)
	}
	documentStore := document.NewStore(db, storage)
	documentHandler := document.NewHTTPHandler(documentStore)

	// Initialize the subscription notifier. Mail is optional; without an
	// SMTP host only in-app notifications are created.
	var mail notification.MailSender
	if cfg.SMTP.Host != "" {
		mail = notification.NewSMTPSender(notification.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	}
	dispatcher := notification.NewDispatcher(db, mail)

	// Initialize the marketplace manager with the database connection
	mm := marketplace.NewManager(db, dispatcher)

	// Set up HTTP routes
	tokenParser := auth.NewTokenParser(cfg.Auth.JWTSecret)
	requireAuth := auth.RequireAuth(tokenParser)

	mux := http.NewServeMux()
	mux.Handle("POST /api/subscriptions", requireAuth(http.HandlerFunc(mm.HandleSubscribe)))
	mux.Handle("GET /api/subscriptions", requireAuth(http.HandlerFunc(mm.HandleGetSubscriptions)))
	mux.Handle("GET /api/subscriptions/{subscriptionID}/steps", requireAuth(http.HandlerFunc(mm.HandleGetProcessSteps)))
	mux.Handle("POST /api/subscriptions/{subscriptionID}/retrigger/{stage}", requireAuth(http.HandlerFunc(mm.HandleRetrigger)))
	mux.Handle("GET /api/provider/details", requireAuth(http.HandlerFunc(mm.HandleGetProviderDetails)))
	mux.Handle("PUT /api/provider/details", requireAuth(http.HandlerFunc(mm.HandleSetProviderDetails)))
	mux.Handle("POST /api/documents/self-description", requireAuth(http.HandlerFunc(documentHandler.Register)))
	mux.Handle("GET /api/documents/{documentID}", requireAuth(http.HandlerFunc(documentHandler.Download)))

	// Set up graceful shutdown
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)

	// Wrap handler with CORS middleware
	handler := middleware.CORS(&cfg.CORS)(mux)

	server := &http.Server{
		Addr:    serverAddr,
		Handler: handler,
	}

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// Wait for interrupt signal
	<-quit
	slog.Info("shutting down server...")

	// Create a context with timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown of HTTP server
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	} else {
		slog.Info("server gracefully stopped")
	}

	slog.Info("server stopped")
}
