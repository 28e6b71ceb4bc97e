package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/khannadk2/swift-order-entry/internal/config"
	"github.com/khannadk2/swift-order-entry/internal/engine"
	"github.com/khannadk2/swift-order-entry/internal/handler"
	"github.com/khannadk2/swift-order-entry/internal/refdata"
	"github.com/khannadk2/swift-order-entry/internal/service"
	"github.com/khannadk2/swift-order-entry/internal/store"
	"github.com/khannadk2/swift-order-entry/internal/stream"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Reference data: demo catalog and account/restriction tables.
	catalog := refdata.DemoCatalog()
	refData := refdata.DemoProvider()

	// Stores.
	orderStore := store.NewOrderStore()
	approvalStore := store.NewApprovalStore()
	webhookStore := store.NewWebhookStore()

	// Live order event stream.
	hub := stream.NewHub(logger)

	// Services.
	webhookSvc := service.NewWebhookService(webhookStore, cfg.WebhookTimeout)
	securitySvc := service.NewSecurityService(catalog)
	orderSvc := service.NewOrderService(catalog, refData, orderStore, approvalStore, webhookSvc, hub)
	approvalSvc := service.NewApprovalService(approvalStore, orderStore, webhookSvc, hub)

	// Demo fill simulator (order service publishes the status changes).
	seed := cfg.SimulationSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	simulator := engine.NewSimulator(cfg.SimulationInterval, seed, orderStore, orderSvc)

	// Router.
	router := handler.NewRouter(securitySvc, orderSvc, approvalSvc, webhookSvc, hub, logger)

	// Start background goroutines with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)
	simulator.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the
	// simulator and the stream hub).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
