// Command lambda runs the employee service behind API Gateway.
package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/gateway"
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

	dispatcher, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize service", zap.Error(err))
	}

	handler := gateway.NewHandler(dispatcher, logger.Named("gateway"))
	logger.Info("lambda cold start completed", zap.String("environment", cfg.Environment))
	lambda.Start(handler.Handle)
}
