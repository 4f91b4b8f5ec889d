package store

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Client is the subset of *dynamodb.Client used by the Store.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

var _ Client = (*dynamodb.Client)(nil)

// PK represents a DynamoDB primary key.
type PK map[string]types.AttributeValue

// Item is a record read from or returned by the table.
type Item struct {
	// Raw is the raw DynamoDB item.
	Raw map[string]types.AttributeValue
}

// Decode unmarshals the item into out.
func (i *Item) Decode(out any) error {
	return attributevalue.UnmarshalMap(i.Raw, out)
}

// Map unmarshals the item into a generic document. A nil item yields an empty map.
func (i *Item) Map() (map[string]any, error) {
	doc := map[string]any{}
	if i == nil || len(i.Raw) == 0 {
		return doc, nil
	}
	if err := i.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
