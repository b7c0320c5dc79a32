// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/thecajunmenu/reservations/internal/config"
	"github.com/thecajunmenu/reservations/internal/database"
	"github.com/thecajunmenu/reservations/internal/handler"
	"github.com/thecajunmenu/reservations/internal/notify"
	"github.com/thecajunmenu/reservations/internal/repository"
	"github.com/thecajunmenu/reservations/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	ctx := context.Background()

	// ── 1. Optional reservation log ──────────────────────────────────────
	var records *repository.ReservationRepository
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal("database schema", zap.Error(err))
		}
		records = repository.NewReservationRepository(pool)
		logger.Info("reservation log enabled")
	}

	// ── 2. Channel senders, constructed once and injected ────────────────
	var emailSender notify.EmailSender
	if cfg.Email.Configured() {
		s, err := notify.NewSMTPSender(cfg.Email, cfg.VenueName, cfg.SendTimeout)
		if err != nil {
			logger.Fatal("smtp client", zap.Error(err))
		}
		emailSender = s
	} else {
		logger.Warn("email channel not configured", zap.Strings("missing", cfg.Email.Missing()))
	}

	var smsSender notify.SMSSender
	if cfg.SMS.Configured() {
		smsSender = notify.NewTwilioSender(cfg.SMS, cfg.SendTimeout)
	} else {
		logger.Warn("sms channel not configured", zap.Strings("missing", cfg.SMS.Missing()))
	}

	// ── 3. Wire up layers and build the router ───────────────────────────
	svc := service.NewReservationService(cfg, emailSender, smsSender, records, logger)
	h := handler.NewReservationHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.AccessLog(logger))
	r.Use(handler.CORS)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.HealthCheck)
	r.Mount("/api", h.Routes(records != nil))

	// ── 4. Start server with graceful shutdown ───────────────────────────
	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
