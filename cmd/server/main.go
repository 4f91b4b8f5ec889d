// Command server runs the employee service as a local HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/httpapi"
	"github.com/PavanGupta6/employee/internal/app"
	"github.com/PavanGupta6/employee/internal/config"
	"github.com/PavanGupta6/employee/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, !cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dispatcher, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize service", zap.Error(err))
	}

	srv := &http.Server{
		Addr: cfg.Server.Address,
		Handler: httpapi.NewHandler(dispatcher, httpapi.Options{
			Logger:         logger.Named("http"),
			Metrics:        httpapi.NewMetrics("employee"),
			AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
