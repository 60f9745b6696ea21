package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hourglass/internal/config"
	"hourglass/internal/database"
	"hourglass/internal/handler"
	"hourglass/internal/service"
	"hourglass/internal/storage"
)

func main() {
	cfg := config.New()

	var store storage.Store
	if cfg.DatabaseURI != "" {
		db, err := database.NewDB(cfg.DatabaseURI)
		if err != nil {
			slog.Error("failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer database.CloseDB(db)

		if err := database.InitSchema(db); err != nil {
			slog.Error("failed to init DB schema", "error", err)
			os.Exit(1)
		}
		store = storage.NewPostgresStore(db)
	} else {
		slog.Info("no database URI configured, using in-memory store")
		store = storage.NewMemoryStore()
	}

	// Services
	authSvc := service.NewAuthService(store)
	svcs := handler.Services{
		Auth:      authSvc,
		WorkOrder: service.NewWorkOrderService(store),
		Timesheet: service.NewTimesheetService(store),
		Invoice:   service.NewInvoiceService(store),
		Job:       service.NewJobService(store),
		Dashboard: service.NewDashboardService(store),
	}

	if cfg.SeedUsers {
		if err := authSvc.EnsureSeedUsers(context.Background()); err != nil {
			slog.Error("failed to seed default users", "error", err)
			os.Exit(1)
		}
	}

	r := handler.NewRouter(svcs, cfg.JWTSecret)

	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
