package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reyesayala/wa-network-request-compare/internal/adapter/postgres"
	"github.com/reyesayala/wa-network-request-compare/internal/delivery/http/handler"
	"github.com/reyesayala/wa-network-request-compare/internal/delivery/http/router"
	"github.com/reyesayala/wa-network-request-compare/pkg/config"
	"github.com/reyesayala/wa-network-request-compare/pkg/logger"
	"github.com/reyesayala/wa-network-request-compare/pkg/metrics"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logger ---
	logger.Init(os.Stdout, logger.ParseLevel(cfg.LogLevel))
	slog.Info("Logger initialized", "level", cfg.LogLevel)

	// --- Metrics ---
	metrics.Init()
	slog.Info("Metrics initialized")

	// --- Comparison defaults ---
	opts, err := config.LoadCompareOptions(os.Getenv("COMPARE_OPTIONS_FILE"))
	if err != nil {
		slog.Error("Invalid comparison options", "error", err)
		os.Exit(1)
	}

	// --- Database Connection ---
	ctx := context.Background()
	pgConnString := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB)
	dbpool, err := pgxpool.New(ctx, pgConnString)
	if err != nil {
		slog.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbpool.Close()
	slog.Info("PostgreSQL connection pool established")

	// --- Repositories ---
	reportRepo := postgres.NewReportRepo(dbpool)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(opts, reportRepo, reportRepo)
	httpRouter := router.New(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Could not listen on port", "port", cfg.ServerPort, "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("Server exiting")
}
