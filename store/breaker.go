package store

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig configures the circuit breaker in front of DynamoDB.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that opens the breaker once
	// MinRequests calls have been counted.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the breaker settings used by the service.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "dynamodb",
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// BreakerClient guards a Client with a circuit breaker. While open, calls
// fail with gobreaker.ErrOpenState without reaching DynamoDB. Failed
// conditions and caller cancellations never count against the breaker.
type BreakerClient struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

var _ Client = (*BreakerClient)(nil)

// NewBreakerClient wraps client.
func NewBreakerClient(client Client, config BreakerConfig, logger *zap.Logger) *BreakerClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			var condErr *types.ConditionalCheckFailedException
			return err == nil ||
				errors.As(err, &condErr) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
	})
	return &BreakerClient{client: client, cb: cb}
}

// State returns the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return execute(b.cb, func() (*dynamodb.GetItemOutput, error) {
		return b.client.GetItem(ctx, params, optFns...)
	})
}

func (b *BreakerClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	return execute(b.cb, func() (*dynamodb.PutItemOutput, error) {
		return b.client.PutItem(ctx, params, optFns...)
	})
}

func (b *BreakerClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	return execute(b.cb, func() (*dynamodb.UpdateItemOutput, error) {
		return b.client.UpdateItem(ctx, params, optFns...)
	})
}

func (b *BreakerClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	return execute(b.cb, func() (*dynamodb.ScanOutput, error) {
		return b.client.Scan(ctx, params, optFns...)
	})
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (any, error) {
		return fn()
	})
	result, _ := out.(T)
	return result, err
}
