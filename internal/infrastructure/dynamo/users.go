package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-auth-api/internal/domain"
)

// UserRepo provides typed DynamoDB operations for the users table.
// PK: email — identity and key are the same thing in this service.
type UserRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewUserRepo(client *dynamodb.Client, tableName string) *UserRepo {
	return &UserRepo{client: client, tableName: tableName}
}

// Upsert creates the user row if absent and refreshes last_login either way.
// if_not_exists keeps created_at stable across logins, making a single
// UpdateItem a true create-or-update.
func (r *UserRepo) Upsert(ctx context.Context, email string, lastLogin time.Time) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              strKey("email", email),
		UpdateExpression: aws.String("SET #ll = :ll, #ca = if_not_exists(#ca, :now)"),
		ExpressionAttributeNames: map[string]string{
			"#ll": fieldLastLogin,
			"#ca": fieldCreatedAt,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ll":  &types.AttributeValueMemberS{Value: lastLogin.UTC().Format(time.RFC3339)},
			":now": &types.AttributeValueMemberS{Value: lastLogin.UTC().Format(time.RFC3339)},
		},
	})
	return err
}

func (r *UserRepo) Get(ctx context.Context, email string) (*domain.User, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	var u domain.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
