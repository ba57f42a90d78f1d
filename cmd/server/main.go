package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-records-api/internal/config"
	"bank-records-api/internal/handler"
	"bank-records-api/internal/kvstore"
	"bank-records-api/internal/logger"
	"bank-records-api/internal/repository"
	"bank-records-api/internal/service"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger)

	// Open the key/value store the collections live in
	store, closeStore, err := kvstore.Open(context.Background(), cfg.Store)
	if err != nil {
		log.Error("failed to open store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	log.Info("store opened", "backend", cfg.Store.Backend)

	// Load every collection once; all services share the session
	session, err := service.OpenSession(context.Background(), store)
	if err != nil {
		log.Error("failed to load records", "error", err)
		os.Exit(1)
	}

	// Initialize services
	engine := service.NewBalanceEngine(session, log)
	customerService := service.NewCustomerService(session, log)
	accountService := service.NewAccountService(session, log)
	cardService := service.NewATMCardService(session, log)
	transactionService := service.NewTransactionService(session, engine, log)

	// Initialize handlers
	router := handler.NewRouter(handler.Handlers{
		Health:       handler.NewHealthHandler(store, cfg.Store.Backend, version),
		Customers:    handler.NewCustomerHandler(customerService, log),
		Accounts:     handler.NewAccountHandler(accountService, log),
		Cards:        handler.NewATMCardHandler(cardService, log),
		Transactions: handler.NewTransactionHandler(transactionService, log),
		Idempotency:  repository.NewIdempotencyRepository(store, cfg.Server.IdempotencyTTL),
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Info("starting server", "port", cfg.Server.Port, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server exited")
}
