package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"applygate/internal/auth"
	"applygate/internal/config"
	"applygate/internal/database"
	"applygate/internal/email"
	"applygate/internal/httpapi"
	"applygate/internal/store"
)

func init() {
	// Load environment variables from .env file.
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found")
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	setupLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		slog.Error("database error", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("error disconnecting from MongoDB", "err", err)
		}
	}()
	slog.Info("connected to MongoDB", "database", cfg.Mongo.Database)

	users := store.NewUsers(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		slog.Error("index error", "err", err)
		os.Exit(1)
	}
	verifications := store.NewVerifications(db)
	resets := store.NewResetTickets(db)
	apps := store.NewApplications(db)

	mailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		slog.Error("mailer error", "err", err)
		os.Exit(1)
	}

	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService(cfg.JWT)
	flow := auth.NewFlow(hasher, tokens, users, verifications, resets, mailer)

	ac := httpapi.NewAccessControl(tokens, users)
	router := httpapi.NewRouter(httpapi.NewHandlers(flow, users, apps), ac)

	// Wrap the router with logging and CORS middleware.
	handler := handlers.LoggingHandler(os.Stdout, handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(router))

	addr := ":" + cfg.Port
	srv := &http.Server{
		Handler:      handler,
		Addr:         addr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signals for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		slog.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}
	slog.Info("server exiting gracefully")
}

// setupLogger configures the global slog logger.
func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{Level: level})
	}

	slog.SetDefault(slog.New(handler))
}
