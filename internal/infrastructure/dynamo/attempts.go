package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/otp-auth-api/internal/domain"
)

// AttemptRepo provides typed DynamoDB operations for the verification
// attempts table. PK: attempt_id. GSI: identity-expires_at-index
// (hash: identity, range: expires_at) for the latest-active lookup.
type AttemptRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewAttemptRepo(client *dynamodb.Client, tableName string) *AttemptRepo {
	return &AttemptRepo{client: client, tableName: tableName}
}

func (r *AttemptRepo) Put(ctx context.Context, a *domain.VerificationAttempt) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal attempt: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// GetLatestActive returns the most recently issued active attempt matching
// (identity, code). The GSI query is descending on expires_at; code and
// status are narrowed by filter expression, and equal expiry times are
// tie-broken client-side on issued_at. Identity and code are matched jointly:
// a matching code issued for a different identity never qualifies.
//
// Attempts are retained forever and the filter runs after each 1 MB page is
// read, so the query pages through LastEvaluatedKey until a match or exhaustion.
func (r *AttemptRepo) GetLatestActive(ctx context.Context, identity, code string) (*domain.VerificationAttempt, error) {
	var attempts []domain.VerificationAttempt
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Query(ctx, latestActiveQueryInput(r.tableName, identity, code, startKey))
		if err != nil {
			return nil, err
		}
		var page []domain.VerificationAttempt
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		attempts = append(attempts, page...)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	latest := pickLatest(attempts)
	if latest == nil {
		return nil, fmt.Errorf("no active attempt: %w", domain.ErrNotFound)
	}
	return latest, nil
}

// latestActiveQueryInput builds one page of the latest-active GSI query.
// "identity" is on DynamoDB's reserved-words list, so like "status" it must
// only ever appear in expressions behind an attribute-name alias.
func latestActiveQueryInput(table, identity, code string, startKey map[string]types.AttributeValue) *dynamodb.QueryInput {
	return &dynamodb.QueryInput{
		TableName:              aws.String(table),
		IndexName:              aws.String("identity-expires_at-index"),
		KeyConditionExpression: aws.String("#id = :id"),
		FilterExpression:       aws.String("code = :code AND #s = :active"),
		ExpressionAttributeNames: map[string]string{
			"#id": fieldIdentity,
			"#s":  fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id":     &types.AttributeValueMemberS{Value: identity},
			":code":   &types.AttributeValueMemberS{Value: code},
			":active": &types.AttributeValueMemberS{Value: domain.AttemptStatusActive},
		},
		ScanIndexForward:  aws.Bool(false),
		ExclusiveStartKey: startKey,
	}
}

// MarkConsumed transitions an attempt from active to consumed. The condition
// expression makes the transition single-winner: when two verifications race
// for the same attempt, the loser gets ErrConflict.
func (r *AttemptRepo) MarkConsumed(ctx context.Context, attemptID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("attempt_id", attemptID),
		UpdateExpression:    aws.String("SET #s = :consumed"),
		ConditionExpression: aws.String("#s = :active"),
		ExpressionAttributeNames: map[string]string{
			"#s": fieldStatus,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":consumed": &types.AttributeValueMemberS{Value: domain.AttemptStatusConsumed},
			":active":   &types.AttributeValueMemberS{Value: domain.AttemptStatusActive},
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return fmt.Errorf("attempt already consumed: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// pickLatest selects the attempt with the greatest expires_at, breaking ties
// on issued_at so the most recently issued code wins. The query already sorts
// by expires_at, but items sharing an expiry land in undefined GSI order.
func pickLatest(attempts []domain.VerificationAttempt) *domain.VerificationAttempt {
	var latest *domain.VerificationAttempt
	for i := range attempts {
		a := &attempts[i]
		if latest == nil ||
			a.ExpiresAt > latest.ExpiresAt ||
			(a.ExpiresAt == latest.ExpiresAt && a.IssuedAt > latest.IssuedAt) {
			latest = a
		}
	}
	return latest
}
