package services

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// LocalDynamoAPI is an in-memory DynamoAPI used by tests and by the offline
// demo mode, which needs no AWS credentials. Items are keyed by table name
// plus the "namespace" partition key.
type LocalDynamoAPI struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue
}

func NewLocalDynamoAPI() *LocalDynamoAPI {
	return &LocalDynamoAPI{items: map[string]map[string]types.AttributeValue{}}
}

func itemKey(tableName *string, key map[string]types.AttributeValue) string {
	k := *tableName
	if ns, ok := key["namespace"].(*types.AttributeValueMemberS); ok {
		k += "/" + ns.Value
	}
	return k
}

func (l *LocalDynamoAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.items[itemKey(params.TableName, params.Key)]
	return &dynamodb.GetItemOutput{Item: item}, nil
}

func (l *LocalDynamoAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items[itemKey(params.TableName, params.Item)] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (l *LocalDynamoAPI) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.items, itemKey(params.TableName, params.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}
