package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"

	"github.com/roomledger/roomledger/internal/adapter/fsm"
	"github.com/roomledger/roomledger/internal/adapter/mail"
	"github.com/roomledger/roomledger/internal/adapter/otel"
	riveradapter "github.com/roomledger/roomledger/internal/adapter/river"
	"github.com/roomledger/roomledger/internal/adapter/sqlite"
	"github.com/roomledger/roomledger/internal/app"
	"github.com/roomledger/roomledger/internal/domain"

	handler "github.com/roomledger/roomledger/internal/adapter/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	port := envOrDefault("PORT", "8080")
	dbPath := envOrDefault("DATABASE_PATH", "roomledger.db")

	ctx := context.Background()

	// --- Observability ---
	providers, err := otel.Setup(ctx, otel.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.Error("otel shutdown", "error", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := otel.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	repo, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	defer repo.Close()

	mailer := mail.New(mailConfigFromEnv())

	riverClient, err := riveradapter.Setup(ctx, repo.DB(), mailer)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		return fmt.Errorf("river start: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := riverClient.Stop(stopCtx); err != nil {
			slog.Error("river stop", "error", err)
		}
	}()

	publisher := otel.NewTracingPublisher(riveradapter.NewPublisher(riverClient))

	// --- Application ---
	sync := app.NewRoomStatusSynchronizer()
	locks := app.NewRoomLocks()

	services := handler.Services{
		Rooms: app.NewRoomService(repo),
		Reservations: app.NewReservationService(repo, publisher,
			fsm.New(domain.ReservationTransitions), sync, locks),
		Housekeeping: app.NewHousekeepingService(repo, publisher,
			fsm.New(domain.TaskTransitions), sync, locks),
		Maintenance: app.NewMaintenanceService(repo, publisher,
			fsm.New(domain.RequestTransitions), sync, locks),
	}

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(otelchi.Middleware("roomledger", otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("roomledger", "0.1.0"))
	handler.Register(api, services)

	// --- Server ---
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("roomledger listening", "port", port)
		slog.Info("api docs", "url", "http://localhost:"+port+"/docs")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-done:
	}

	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}

	slog.Info("stopped")
	return nil
}

func mailConfigFromEnv() mail.Config {
	port, _ := strconv.Atoi(envOrDefault("SMTP_PORT", "587"))
	return mail.Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOrDefault("SMTP_FROM", "reservations@roomledger.local"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
