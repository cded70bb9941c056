package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"github.com/acampos831/e-store-backend/internal/aws"
)

// Roles stored on profile documents.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Profile is the per-user document in the users table. Identity itself
// (token verification, sign-in) is owned by the upstream identity
// provider; this table only carries the fields the storefront reads back
// by user id.
type Profile struct {
	UserID      string    `dynamodbav:"user_id"` // PK
	Email       string    `dynamodbav:"email"`
	DisplayName string    `dynamodbav:"display_name"`
	Role        string    `dynamodbav:"role"`
	CreatedAt   time.Time `dynamodbav:"created_at"`
}

// ErrProfileNotFound is returned by mutations targeting a missing profile.
var ErrProfileNotFound = errors.New("profile not found")

// Store encapsulates operations on the users table.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// EnsureProfile creates the profile document on first sign-in and leaves
// an existing one untouched. Returns created=false without error when the
// profile already exists, so it is safe to call on every sign-in.
func (s *Store) EnsureProfile(ctx context.Context, userID, email, displayName string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("ensure profile: user id is required")
	}

	p := Profile{
		UserID:      userID,
		Email:       email,
		DisplayName: displayName,
		Role:        RoleCustomer,
		CreatedAt:   s.nowFunc(),
	}

	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return false, fmt.Errorf("marshal profile: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                item,
		ConditionExpression: awsString("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "ConditionalCheckFailedException" {
			return false, nil
		}
		return false, fmt.Errorf("put item: %w", err)
	}

	return true, nil
}

// Get fetches a profile by user id. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, userID string) (*Profile, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Profile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	return &p, nil
}

// UpdateRole replaces the stored role for userID.
func (s *Store) UpdateRole(ctx context.Context, userID, role string) error {
	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: awsString("SET #r = :r"),
		ExpressionAttributeNames: map[string]string{
			"#r": "role",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":r": &types.AttributeValueMemberS{Value: role},
		},
		ConditionExpression: awsString("attribute_exists(user_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
