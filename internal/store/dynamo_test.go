package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items  map[string]map[string]types.AttributeValue
	getErr error
	tables []string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]types.AttributeValue)}
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.tables = append(f.tables, aws.ToString(in.TableName))
	k := in.Key["key"].(*types.AttributeValueMemberS).Value
	return &dynamodb.GetItemOutput{Item: f.items[k]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.tables = append(f.tables, aws.ToString(in.TableName))
	k := in.Item["key"].(*types.AttributeValueMemberS).Value
	f.items[k] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func TestDynamo_SetGet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeDynamo()
	d := NewDynamo(fake, "presu_kv")
	d.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	_, ok, err := d.Get(ctx, "presuapp_v3_budgets")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Set(ctx, "presuapp_v3_budgets", []byte(`[]`)))
	v, ok, err := d.Get(ctx, "presuapp_v3_budgets")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", string(v))

	stored := fake.items["presuapp_v3_budgets"]
	assert.Equal(t, "2026-01-02T03:04:05Z", stored["updated_at"].(*types.AttributeValueMemberS).Value)
	for _, table := range fake.tables {
		assert.Equal(t, "presu_kv", table)
	}
}

func TestDynamo_GetError(t *testing.T) {
	fake := newFakeDynamo()
	fake.getErr = errors.New("throttled")
	_, _, err := NewDynamo(fake, "t").Get(context.Background(), "k")
	assert.EqualError(t, err, "throttled")
}
