package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/acampos831/e-store-backend/internal/aws"
)

var (
	// ErrCartNotFound is returned by mutations that require an existing cart.
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartConflict means a concurrent writer changed the cart between our
	// read and write. The merge was not applied; callers may re-issue the call.
	ErrCartConflict = errors.New("cart modified concurrently")
)

// Store encapsulates operations on the carts table.
//
// Every item-list mutation is a read-modify-write: the whole items list is
// rewritten under a version condition, so a racing writer fails with
// ErrCartConflict instead of silently losing a quantity merge. The store
// itself never retries.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
}

// NewStore creates a new cart Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
	}
}

// Get fetches the cart for userID. Returns (nil, nil) if none exists:
// an absent cart is a normal state, not an error.
func (s *Store) Get(ctx context.Context, userID string) (*Cart, error) {
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
	var c Cart
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &c, nil
}

// AddItem adds item to the user's cart, creating the cart lazily on first
// add. If a line with the same product already exists its quantity is
// increased by item.Quantity; a duplicate line is never created.
func (s *Store) AddItem(ctx context.Context, userID string, item Item) error {
	if userID == "" {
		return fmt.Errorf("add item: user id is required")
	}
	if item.ProductID == "" || item.Quantity < 1 {
		return fmt.Errorf("add item: product id and quantity >= 1 are required")
	}

	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	if current == nil {
		return s.createCart(ctx, userID, item)
	}

	items := mergeItem(current.Items, item)
	return s.writeItems(ctx, userID, items, current.Version)
}

// SetQuantity replaces the stored quantity of productID with quantity.
// The value is taken verbatim: setting 0 leaves a zero-quantity line in
// place, it does not remove the line. A product not in the cart is a
// no-op; a missing cart is ErrCartNotFound.
func (s *Store) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrCartNotFound
	}

	idx := -1
	for i, it := range current.Items {
		if it.ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	items := make([]Item, len(current.Items))
	copy(items, current.Items)
	items[idx].Quantity = quantity

	return s.writeItems(ctx, userID, items, current.Version)
}

// RemoveItem removes the line for productID if present. Removing an absent
// product, or from an absent cart, is a no-op. Safe to call twice.
func (s *Store) RemoveItem(ctx context.Context, userID, productID string) error {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil {
		return nil
	}

	items := make([]Item, 0, len(current.Items))
	for _, it := range current.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	if len(items) == len(current.Items) {
		return nil
	}

	return s.writeItems(ctx, userID, items, current.Version)
}

// Clear empties the cart's item list. The cart document itself is kept,
// matching checkout semantics: carts are cleared, never deleted. Returns
// ErrCartNotFound if no cart document exists for userID.
func (s *Store) Clear(ctx context.Context, userID string) error {
	now := s.nowFunc()

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: awsString("SET #items = :empty, updated_at = :ua, #v = if_not_exists(#v, :zero) + :one"),
		ExpressionAttributeNames: map[string]string{
			"#items": "items",
			"#v":     "version",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
			":ua":    &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":zero":  &types.AttributeValueMemberN{Value: "0"},
			":one":   &types.AttributeValueMemberN{Value: "1"},
		},
		ConditionExpression: awsString("attribute_exists(user_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrCartNotFound
		}
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// createCart writes a fresh single-item cart. The condition catches the
// race where another writer created the cart after our read.
func (s *Store) createCart(ctx context.Context, userID string, item Item) error {
	c := Cart{
		UserID:    userID,
		Items:     []Item{item},
		UpdatedAt: s.nowFunc(),
		Version:   1,
	}

	av, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: awsString("attribute_not_exists(user_id)"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrCartConflict
		}
		return fmt.Errorf("put cart: %w", err)
	}
	return nil
}

// writeItems rewrites the full items list, conditioned on the version we
// read so a concurrent rewrite surfaces as ErrCartConflict. A document
// without a version attribute reads back as version 0; the write then
// requires the attribute to still be absent, so the conflict guard holds
// for those documents too instead of failing every retry.
func (s *Store) writeItems(ctx context.Context, userID string, items []Item, readVersion int64) error {
	av, err := attributevalue.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	now := s.nowFunc()

	values := map[string]types.AttributeValue{
		":items": av,
		":ua":    &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
		":next":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", readVersion+1)},
	}
	condition := "attribute_not_exists(#v)"
	if readVersion > 0 {
		condition = "#v = :expected"
		values[":expected"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", readVersion)}
	}

	_, err = s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id": &types.AttributeValueMemberS{Value: userID},
		},
		UpdateExpression: awsString("SET #items = :items, updated_at = :ua, #v = :next"),
		ExpressionAttributeNames: map[string]string{
			"#items": "items",
			"#v":     "version",
		},
		ExpressionAttributeValues: values,
		ConditionExpression:       awsString(condition),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrCartConflict
		}
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// mergeItem folds item into items by product id: an existing line gains
// the added quantity, otherwise the item is appended as a new line.
func mergeItem(items []Item, item Item) []Item {
	merged := make([]Item, len(items))
	copy(merged, items)

	for i, it := range merged {
		if it.ProductID == item.ProductID {
			merged[i].Quantity += item.Quantity
			return merged
		}
	}
	return append(merged, item)
}

func awsString(s string) *string { return &s }
