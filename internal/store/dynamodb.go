package store

import (
	"context"
	"fmt"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBService is the subset of the DynamoDB client used here.
type DynamoDBService interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

type DynamoDBStore struct {
	client DynamoDBService
	table  string
}

func NewDynamoDBStore(client DynamoDBService, table string) *DynamoDBStore {
	return &DynamoDBStore{client: client, table: table}
}

func (s *DynamoDBStore) Get(ctx context.Context, id string) (*models.RestaurantRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError(err)
	}
	if len(out.Item) == 0 {
		return nil, apperrors.NewRecordNotFoundError(id)
	}

	var rec models.RestaurantRecord
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, apperrors.NewStoreUnavailableError(fmt.Errorf("unmarshal %s: %w", id, err))
	}
	return &rec, nil
}

func (s *DynamoDBStore) Put(ctx context.Context, rec *models.RestaurantRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return err
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return apperrors.NewStoreUnavailableError(err)
	}
	return nil
}
