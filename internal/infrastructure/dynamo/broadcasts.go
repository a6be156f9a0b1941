package dynamo

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/liquidsuites/launch-api/internal/domain"
)

// BroadcastRepo stores the summary record of each notify-all run.
type BroadcastRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBroadcastRepo(client *dynamodb.Client, tableName string) *BroadcastRepo {
	return &BroadcastRepo{client: client, tableName: tableName}
}

func (r *BroadcastRepo) Put(ctx context.Context, b *domain.Broadcast) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal broadcast: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// List returns all recorded broadcasts, newest first. ULIDs sort by
// creation time, so ordering by id is ordering by time.
func (r *BroadcastRepo) List(ctx context.Context) ([]domain.Broadcast, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var broadcasts []domain.Broadcast
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &broadcasts); err != nil {
		return nil, err
	}
	sort.Slice(broadcasts, func(i, j int) bool {
		return broadcasts[i].BroadcastID > broadcasts[j].BroadcastID
	})
	return broadcasts, nil
}
