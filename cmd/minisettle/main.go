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

	"github.com/efreitasn/minisettle/internal/config"
	"github.com/efreitasn/minisettle/internal/domain"
	"github.com/efreitasn/minisettle/internal/engine"
	"github.com/efreitasn/minisettle/internal/handler"
	"github.com/efreitasn/minisettle/internal/kafka"
	"github.com/efreitasn/minisettle/internal/outbox"
	"github.com/efreitasn/minisettle/internal/service"
	"github.com/efreitasn/minisettle/internal/store"
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

	// Durable outbox.
	box, err := outbox.Open(cfg.OutboxDir)
	if err != nil {
		logger.Error("failed to open outbox", slog.String("dir", cfg.OutboxDir), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer box.Close()

	// Stores.
	orderStore := store.NewOrderStore()
	ledgerStore := store.NewLedgerStore()
	txStore := store.NewTxStore(orderStore, ledgerStore, box)

	// Domain.
	instruments := domain.NewInstrumentRegistry()

	// Engine.
	serializer := engine.NewInstrumentSerializer()
	matcher := engine.NewMatcher(orderStore)
	settler := engine.NewSettler(txStore)
	eng := engine.NewEngine(serializer, matcher, settler, logger)

	// Publisher and outbox relay.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	kafka.EnsureTopic(ctx, cfg.KafkaBrokers[0], cfg.KafkaTopic, logger)
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	relay := outbox.NewRelay(box, producer, cfg.OutboxInterval, logger)
	go relay.Start(ctx)

	// Services.
	orderSvc := service.NewOrderService(orderStore, eng, instruments, cfg.MatchTimeout)
	marketSvc := service.NewMarketService(ledgerStore, orderStore, instruments)

	// Router.
	router := handler.NewRouter(orderSvc, marketSvc, logger)

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

	// Graceful shutdown: stop HTTP server, cancel context (stops relay).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
