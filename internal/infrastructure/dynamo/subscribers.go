package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/liquidsuites/launch-api/internal/domain"
)

// SubscriberRepo provides typed DynamoDB operations for the subscribers table.
type SubscriberRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewSubscriberRepo(client *dynamodb.Client, tableName string) *SubscriberRepo {
	return &SubscriberRepo{client: client, tableName: tableName}
}

// Create inserts a subscriber. The put is conditional on the phone key not
// existing, so two concurrent signups for the same number cannot both
// succeed; the loser gets domain.ErrConflict.
func (r *SubscriberRepo) Create(ctx context.Context, sub *domain.Subscriber) error {
	item, err := attributevalue.MarshalMap(sub)
	if err != nil {
		return fmt.Errorf("marshal subscriber: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(phone_key)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("phone number already registered: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *SubscriberRepo) GetByPhoneKey(ctx context.Context, phoneKey string) (*domain.Subscriber, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_key", phoneKey),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("subscriber %s: %w", phoneKey, domain.ErrNotFound)
	}
	var sub domain.Subscriber
	if err := attributevalue.UnmarshalMap(out.Item, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Scan returns every subscriber. The roster for a single landing page is
// small enough that an unpaginated full scan is fine.
func (r *SubscriberRepo) Scan(ctx context.Context) ([]domain.Subscriber, error) {
	var subs []domain.Subscriber
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.tableName),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, err
		}
		var page []domain.Subscriber
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		subs = append(subs, page...)
		if len(out.LastEvaluatedKey) == 0 {
			return subs, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

// Update applies a partial update to the subscriber with the given phone key.
func (r *SubscriberRepo) Update(ctx context.Context, phoneKey string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("phone_key", phoneKey),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

// MarkNotified flips the notified flag and stamps notified_at.
func (r *SubscriberRepo) MarkNotified(ctx context.Context, phoneKey string, at time.Time) error {
	return r.Update(ctx, phoneKey, map[string]interface{}{
		"notified":    true,
		"notified_at": at.UTC().Format(time.RFC3339),
	})
}
