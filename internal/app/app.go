// Package app wires configuration, the DynamoDB client and the employee
// service into a dispatcher shared by the Lambda and HTTP entry points.
package app

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-xray-sdk-go/instrumentation/awsv2"
	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/employee"
	"github.com/PavanGupta6/employee/internal/config"
	"github.com/PavanGupta6/employee/router"
	"github.com/PavanGupta6/employee/store"
)

// NewDynamoClient creates the DynamoDB client described by cfg. A custom
// endpoint switches to static local credentials for DynamoDB Local.
func NewDynamoClient(ctx context.Context, cfg *config.Config) (*dynamodb.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.Endpoint != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Tracing.Enabled {
		awsv2.AWSV2Instrumentor(&awsCfg.APIOptions)
	}

	return dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.AWS.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.AWS.Endpoint)
		}
	}), nil
}

// StoreConfig maps service configuration onto the store adapter.
func StoreConfig(cfg *config.Config) store.Config {
	sc := store.DefaultConfig()
	sc.TableName = cfg.Table.Name
	sc.KeyAttribute = employee.AttrEmployeeID
	sc.Projection = cfg.ProjectionAttributes(employee.DefaultProjection)
	return sc
}

// NewDispatcher builds the employee dispatcher on top of client.
func NewDispatcher(cfg *config.Config, client store.Client, logger *zap.Logger) (*router.Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	st := store.New(client, StoreConfig(cfg), logger.Named("store"))
	svc := employee.NewService(st, logger.Named("employee"))
	return router.New(router.EmployeeRoutes(svc), router.WithLogger(logger.Named("router")))
}

// Build loads the DynamoDB client, guards it with a circuit breaker and
// returns the dispatcher.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*router.Dispatcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := NewDynamoClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("dynamodb client ready",
		zap.String("table", cfg.Table.Name),
		zap.String("region", cfg.AWS.Region),
		zap.Bool("tracing", cfg.Tracing.Enabled),
	)
	breaker := store.NewBreakerClient(client, store.DefaultBreakerConfig(), logger.Named("breaker"))
	return NewDispatcher(cfg, breaker, logger)
}
