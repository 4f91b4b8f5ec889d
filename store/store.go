package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Store provides DynamoDB operations for the employee table.
type Store struct {
	client Client
	config Config
	logger *zap.Logger
}

// New creates a new Store instance.
func New(client Client, config Config, logger *zap.Logger) *Store {
	config.validate()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		config: config,
		logger: logger,
	}
}

// Config returns the effective configuration.
func (s *Store) Config() Config {
	return s.config
}

// Key returns the primary key for a record id.
func (s *Store) Key(id string) PK {
	return PK{
		s.config.KeyAttribute: &types.AttributeValueMemberS{Value: id},
	}
}

// UpdateOptions configures Update.
type UpdateOptions struct {
	// RequireExists makes the update fail with ErrPreconditionFailed when the
	// key is not already in the table.
	RequireExists bool
}

// Fetch reads a record by id. found is false when the key does not exist.
// Without explicit projection names the configured projection is applied.
func (s *Store) Fetch(ctx context.Context, id string, projectionNames ...string) (item *Item, found bool, err error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.config.TableName),
		Key:       s.Key(id),
	}

	if proj, ok := projection(s.projectionOrDefault(projectionNames)); ok {
		expr, err := expression.NewBuilder().WithProjection(proj).Build()
		if err != nil {
			return nil, false, fmt.Errorf("build projection: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}

	result, err := s.client.GetItem(ctx, input)
	if err != nil {
		return nil, false, s.classify("get", err)
	}
	if result.Item == nil {
		s.logger.Debug("record not found", zap.String("id", id))
		return nil, false, nil
	}
	return &Item{Raw: result.Item}, true, nil
}

// List scans the whole table, following scan pages until exhausted.
// An empty table yields an empty, non-nil slice.
func (s *Store) List(ctx context.Context, projectionNames ...string) ([]*Item, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(s.config.TableName),
	}

	if proj, ok := projection(s.projectionOrDefault(projectionNames)); ok {
		expr, err := expression.NewBuilder().WithProjection(proj).Build()
		if err != nil {
			return nil, fmt.Errorf("build projection: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}

	items := []*Item{}
	paginator := dynamodb.NewScanPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.classify("scan", err)
		}
		for _, raw := range page.Items {
			items = append(items, &Item{Raw: raw})
		}
	}

	s.logger.Debug("scanned table",
		zap.String("table", s.config.TableName),
		zap.Int("count", len(items)),
	)
	return items, nil
}

// Put writes a record unconditionally. An existing record with the same key
// is replaced.
func (s *Store) Put(ctx context.Context, record any) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if _, ok := item[s.config.KeyAttribute]; !ok {
		return fmt.Errorf("marshal record: missing key attribute %q", s.config.KeyAttribute)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.config.TableName),
		Item:      item,
	})
	if err != nil {
		return s.classify("put", err)
	}
	return nil
}

// Update applies update to the record with the given id and returns the
// attributes it changed. With opts.RequireExists the update only applies if
// the key is present; otherwise DynamoDB creates the item.
func (s *Store) Update(ctx context.Context, id string, update expression.UpdateBuilder, opts UpdateOptions) (*Item, error) {
	builder := expression.NewBuilder().WithUpdate(update)
	if opts.RequireExists {
		builder = builder.WithCondition(KeyExists(s.config.KeyAttribute))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: build update: %w", ErrInvalidField, err)
	}

	result, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.config.TableName),
		Key:                       s.Key(id),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return nil, s.classify("update", err)
	}
	return &Item{Raw: result.Attributes}, nil
}

func (s *Store) projectionOrDefault(names []string) []string {
	if len(names) > 0 {
		return names
	}
	return s.config.Projection
}

// classify maps a DynamoDB error onto the store error taxonomy.
func (s *Store) classify(op string, err error) error {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return ErrPreconditionFailed
	}
	s.logger.Debug("dynamodb call failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
}
