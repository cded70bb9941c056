package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/acampos831/e-store-backend/internal/aws"
)

// Store encapsulates operations on the orders table. Orders live under the
// (user_id, order_id) composite key, so each user's orders form their own
// namespace and an order id is never reused across users.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
	nowFunc   func() time.Time
	newID     func() string
}

// NewStore creates a new orders Store.
func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		nowFunc:   time.Now,
		newID:     uuid.NewString,
	}
}

// validateDraft checks the checkout preconditions in a fixed order; the
// first failing one names the rejection.
func validateDraft(userID string, draft Draft) error {
	if userID == "" {
		return validationErr("missing user")
	}
	if len(draft.Items) == 0 {
		return validationErr("empty order")
	}
	if draft.PaymentMethod == "" {
		return validationErr("missing payment method")
	}
	if draft.Total == nil {
		return validationErr("missing total")
	}
	return nil
}

// buildOrder freezes a validated draft into an Order. validateDraft must
// have passed: Total is dereferenced here.
func (s *Store) buildOrder(userID string, draft Draft) Order {
	now := s.nowFunc()
	total := *draft.Total

	return Order{
		OrderID:         s.newID(),
		UserID:          userID,
		CustomerName:    draft.CustomerName,
		Items:           defaultLineItems(draft.Items),
		ShippingAddress: draft.ShippingAddress,
		ShippingMethod:  defaultShippingMethod(draft.ShippingMethod, now),
		Payment: Payment{
			Method:        draft.PaymentMethod,
			Amount:        amountOr(draft.PaymentAmount, total),
			Status:        PaymentPending,
			TransactionID: "",
		},
		Subtotal:  amountOr(draft.Subtotal, total),
		Total:     total,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Create validates the draft, builds the immutable order document and
// persists it with a single conditional put, so either the whole order is
// visible afterwards or none of it is. Returns the new order id.
func (s *Store) Create(ctx context.Context, userID string, draft Draft) (string, error) {
	if err := validateDraft(userID, draft); err != nil {
		return "", err
	}

	order := s.buildOrder(userID, draft)

	av, err := attributevalue.MarshalMap(order)
	if err != nil {
		return "", fmt.Errorf("marshal order: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName:           &s.tableName,
		Item:                av,
		ConditionExpression: awsString("attribute_not_exists(order_id)"),
	})
	if err != nil {
		return "", fmt.Errorf("put order: %w", err)
	}

	return order.OrderID, nil
}

// CreateClearingCart is Create plus the checkout side effect: the order put
// and the cart items reset are issued as one TransactWriteItems call, so
// the cart is emptied exactly when the order becomes visible. The cart
// document is kept (cleared, not deleted); clearing a cart that was never
// written materializes it empty with its version counter initialized, so
// later cart mutations see a normal versioned document.
func (s *Store) CreateClearingCart(ctx context.Context, userID string, draft Draft, cartsTable string) (string, error) {
	if err := validateDraft(userID, draft); err != nil {
		return "", err
	}

	order := s.buildOrder(userID, draft)

	av, err := attributevalue.MarshalMap(order)
	if err != nil {
		return "", fmt.Errorf("marshal order: %w", err)
	}

	now := order.CreatedAt

	_, err = s.client.TransactWriteItems(ctx, &dyn.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           &s.tableName,
					Item:                av,
					ConditionExpression: awsString("attribute_not_exists(order_id)"),
				},
			},
			{
				Update: &types.Update{
					TableName: &cartsTable,
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
				},
			},
		},
	})
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return "", fmt.Errorf("checkout transaction canceled: %w", err)
		}
		return "", fmt.Errorf("transact write: %w", err)
	}

	return order.OrderID, nil
}

// Get fetches one of userID's orders. Returns (nil, nil) if not found.
func (s *Store) Get(ctx context.Context, userID, orderID string) (*Order, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id":  &types.AttributeValueMemberS{Value: userID},
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var o Order
	if err := attributevalue.UnmarshalMap(out.Item, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// UpdatePaymentStatus applies the gateway confirmation: exactly
// payment.status, payment.transaction_id and updated_at change, guarded on
// the payment still being pending. A confirmation for an order whose
// payment is already terminal returns ErrPaymentFinal; an unknown order
// returns ErrOrderNotFound.
func (s *Store) UpdatePaymentStatus(ctx context.Context, userID, orderID, transactionID, status string) error {
	if status != PaymentCompleted && status != PaymentFailed {
		return validationErr(fmt.Sprintf("payment status %q is not a terminal state", status))
	}

	now := s.nowFunc()

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id":  &types.AttributeValueMemberS{Value: userID},
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET payment.#ps = :ps, payment.transaction_id = :tx, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#ps": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ps":      &types.AttributeValueMemberS{Value: status},
			":tx":      &types.AttributeValueMemberS{Value: transactionID},
			":ua":      &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":pending": &types.AttributeValueMemberS{Value: PaymentPending},
		},
		ConditionExpression: awsString("attribute_exists(order_id) AND payment.#ps = :pending"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			// Disambiguate: missing order vs terminal payment.
			o, getErr := s.Get(ctx, userID, orderID)
			if getErr != nil {
				return fmt.Errorf("update payment status: %w", getErr)
			}
			if o == nil {
				return ErrOrderNotFound
			}
			return ErrPaymentFinal
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// UpdateStatus conditionally moves the fulfillment status from expected to
// next. No transitions are driven by this package itself; the surrounding
// fulfillment workflow owns them. Returns ErrStatusMismatch when the
// current status is not the expected one.
func (s *Store) UpdateStatus(ctx context.Context, userID, orderID, expected, next string) error {
	now := s.nowFunc()

	_, err := s.client.UpdateItem(ctx, &dyn.UpdateItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"user_id":  &types.AttributeValueMemberS{Value: userID},
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression: awsString("SET #s = :next, updated_at = :ua"),
		ExpressionAttributeNames: map[string]string{
			"#s": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":next":     &types.AttributeValueMemberS{Value: next},
			":ua":       &types.AttributeValueMemberS{Value: now.Format(time.RFC3339)},
			":expected": &types.AttributeValueMemberS{Value: expected},
		},
		ConditionExpression: awsString("#s = :expected"),
	})
	if err != nil {
		var cc *types.ConditionalCheckFailedException
		if errors.As(err, &cc) {
			return ErrStatusMismatch
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

func awsString(s string) *string { return &s }
