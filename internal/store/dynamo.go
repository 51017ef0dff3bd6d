package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/theirongolddev/presu/internal/config"
)

// DynamoAPI is the subset of the DynamoDB client the backend uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Table requirements: PK "key" (string).
type kvItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// Dynamo stores each document as one item in a DynamoDB table.
type Dynamo struct {
	ddb   DynamoAPI
	table string
	now   func() time.Time
}

var _ KV = (*Dynamo)(nil)

// NewDynamo wraps an existing client.
func NewDynamo(ddb DynamoAPI, table string) *Dynamo {
	return &Dynamo{ddb: ddb, table: table, now: time.Now}
}

// OpenDynamo builds a client from cfg. Static credentials fall back to
// "local" so DynamoDB Local works without an AWS profile.
func OpenDynamo(ctx context.Context, cfg config.StorageConfig) (*Dynamo, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewDynamo(client, cfg.Table), nil
}

func (d *Dynamo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := d.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, false, err
	}
	if len(out.Item) == 0 {
		return nil, false, nil
	}

	var it kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, false, err
	}
	return []byte(it.Value), true, nil
}

func (d *Dynamo) Set(ctx context.Context, key string, value []byte) error {
	av, err := attributevalue.MarshalMap(kvItem{
		Key:       key,
		Value:     string(value),
		UpdatedAt: d.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	_, err = d.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      av,
	})
	return err
}

func (d *Dynamo) Close() error { return nil }

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
