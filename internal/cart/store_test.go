package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// mockDynamo is a small in-memory stand-in for the carts table. It
// interprets exactly the expressions the Store issues.
type mockDynamo struct {
	mu    sync.Mutex
	table map[string]map[string]types.AttributeValue

	// bumpVersionAfterRead simulates a concurrent writer: every GetItem
	// bumps the stored version, so the next conditional write fails.
	bumpVersionAfterRead bool
}

func newMockDynamo() *mockDynamo {
	return &mockDynamo{table: map[string]map[string]types.AttributeValue{}}
}

func (m *mockDynamo) GetItem(ctx context.Context, params *dyn.GetItemInput, optFns ...func(*dyn.Options)) (*dyn.GetItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid := params.Key["user_id"].(*types.AttributeValueMemberS).Value
	item, ok := m.table[uid]
	if !ok {
		return &dyn.GetItemOutput{}, nil
	}
	out := map[string]types.AttributeValue{}
	for k, v := range item {
		out[k] = v
	}
	if m.bumpVersionAfterRead {
		cur := item["version"].(*types.AttributeValueMemberN).Value
		item["version"] = &types.AttributeValueMemberN{Value: bumpN(cur)}
	}
	return &dyn.GetItemOutput{Item: out}, nil
}

func (m *mockDynamo) PutItem(ctx context.Context, params *dyn.PutItemInput, optFns ...func(*dyn.Options)) (*dyn.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid := params.Item["user_id"].(*types.AttributeValueMemberS).Value
	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(user_id)" {
		if _, exists := m.table[uid]; exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
	}
	m.table[uid] = params.Item
	return &dyn.PutItemOutput{}, nil
}

func (m *mockDynamo) UpdateItem(ctx context.Context, params *dyn.UpdateItemInput, optFns ...func(*dyn.Options)) (*dyn.UpdateItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid := params.Key["user_id"].(*types.AttributeValueMemberS).Value
	item, exists := m.table[uid]

	switch *params.UpdateExpression {
	case "SET #items = :items, updated_at = :ua, #v = :next":
		if !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
		current, hasVersion := item["version"]
		switch *params.ConditionExpression {
		case "#v = :expected":
			expected := params.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
			if !hasVersion || current.(*types.AttributeValueMemberN).Value != expected {
				return nil, &types.ConditionalCheckFailedException{}
			}
		case "attribute_not_exists(#v)":
			if hasVersion {
				return nil, &types.ConditionalCheckFailedException{}
			}
		default:
			return nil, errors.New("unexpected condition: " + *params.ConditionExpression)
		}
		item["items"] = params.ExpressionAttributeValues[":items"]
		item["updated_at"] = params.ExpressionAttributeValues[":ua"]
		item["version"] = params.ExpressionAttributeValues[":next"]
	case "SET #items = :empty, updated_at = :ua, #v = if_not_exists(#v, :zero) + :one":
		if !exists {
			return nil, &types.ConditionalCheckFailedException{}
		}
		next := "1"
		if v, ok := item["version"]; ok {
			next = bumpN(v.(*types.AttributeValueMemberN).Value)
		}
		item["items"] = params.ExpressionAttributeValues[":empty"]
		item["updated_at"] = params.ExpressionAttributeValues[":ua"]
		item["version"] = &types.AttributeValueMemberN{Value: next}
	default:
		return nil, errors.New("unexpected update expression: " + *params.UpdateExpression)
	}

	m.table[uid] = item
	return &dyn.UpdateItemOutput{Attributes: item}, nil
}

func (m *mockDynamo) DeleteItem(ctx context.Context, params *dyn.DeleteItemInput, optFns ...func(*dyn.Options)) (*dyn.DeleteItemOutput, error) {
	return &dyn.DeleteItemOutput{}, nil
}

func (m *mockDynamo) Scan(ctx context.Context, params *dyn.ScanInput, optFns ...func(*dyn.Options)) (*dyn.ScanOutput, error) {
	return &dyn.ScanOutput{}, nil
}

func (m *mockDynamo) TransactWriteItems(ctx context.Context, params *dyn.TransactWriteItemsInput, optFns ...func(*dyn.Options)) (*dyn.TransactWriteItemsOutput, error) {
	return &dyn.TransactWriteItemsOutput{}, nil
}

func bumpN(v string) string {
	// versions in tests stay single digit
	return string(v[0] + 1)
}

func newTestStore(mock *mockDynamo) *Store {
	s := NewStore(mock, "carts")
	s.nowFunc = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func TestAddItem_CreatesCartLazily(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Title: "Widget", Price: 10, Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if got == nil {
		t.Fatalf("expected cart, got nil")
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != "p1" || got.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", got.Items)
	}
	if got.UserID != "u1" {
		t.Fatalf("user id mismatch: %s", got.UserID)
	}
}

func TestAddItem_MergesByProductID(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	// repeated adds for the same product merge into one line with
	// the summed quantity
	for _, q := range []int{2, 3, 4} {
		if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Price: 10, Quantity: q}); err != nil {
			t.Fatalf("add item q=%d: %v", q, err)
		}
	}
	if err := s.AddItem(ctx, "u1", Item{ProductID: "p2", Price: 5, Quantity: 1}); err != nil {
		t.Fatalf("add second product: %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(got.Items), got.Items)
	}
	if got.Items[0].ProductID != "p1" || got.Items[0].Quantity != 9 {
		t.Fatalf("expected p1 quantity 9, got %+v", got.Items[0])
	}
	if got.Items[1].ProductID != "p2" || got.Items[1].Quantity != 1 {
		t.Fatalf("expected p2 quantity 1, got %+v", got.Items[1])
	}
}

func TestAddItem_RejectsInvalidInput(t *testing.T) {
	s := newTestStore(newMockDynamo())
	ctx := context.Background()

	if err := s.AddItem(ctx, "", Item{ProductID: "p1", Quantity: 1}); err == nil {
		t.Fatalf("expected error for empty user id")
	}
	if err := s.AddItem(ctx, "u1", Item{ProductID: "", Quantity: 1}); err == nil {
		t.Fatalf("expected error for empty product id")
	}
	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 0}); err == nil {
		t.Fatalf("expected error for zero quantity")
	}
}

func TestAddItem_ConflictSurfaces(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	mock.bumpVersionAfterRead = true
	err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 1})
	if !errors.Is(err, ErrCartConflict) {
		t.Fatalf("expected ErrCartConflict, got %v", err)
	}
}

func TestSetQuantity(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	// no cart at all
	if err := s.SetQuantity(ctx, "u1", "p1", 3); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}

	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	// replace quantity verbatim
	if err := s.SetQuantity(ctx, "u1", "p1", 7); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	got, _ := s.Get(ctx, "u1")
	if got.Items[0].Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", got.Items[0].Quantity)
	}

	// absent product: no-op, no new line
	if err := s.SetQuantity(ctx, "u1", "nope", 5); err != nil {
		t.Fatalf("set quantity on absent product: %v", err)
	}
	got, _ = s.Get(ctx, "u1")
	if len(got.Items) != 1 {
		t.Fatalf("no-op grew the cart: %+v", got.Items)
	}

	// zero leaves a zero-quantity line, it does not remove
	if err := s.SetQuantity(ctx, "u1", "p1", 0); err != nil {
		t.Fatalf("set quantity to zero: %v", err)
	}
	got, _ = s.Get(ctx, "u1")
	if len(got.Items) != 1 || got.Items[0].Quantity != 0 {
		t.Fatalf("expected zero-quantity line, got %+v", got.Items)
	}
}

func TestRemoveItem_Idempotent(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	// removing from a missing cart is a no-op
	if err := s.RemoveItem(ctx, "u1", "p1"); err != nil {
		t.Fatalf("remove on missing cart: %v", err)
	}

	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	if err := s.AddItem(ctx, "u1", Item{ProductID: "p2", Quantity: 1}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	if err := s.RemoveItem(ctx, "u1", "p1"); err != nil {
		t.Fatalf("first remove: %v", err)
	}
	if err := s.RemoveItem(ctx, "u1", "p1"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}

	got, _ := s.Get(ctx, "u1")
	if len(got.Items) != 1 || got.Items[0].ProductID != "p2" {
		t.Fatalf("unexpected items after remove: %+v", got.Items)
	}
}

func TestClear(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	if err := s.Clear(ctx, "u1"); !errors.Is(err, ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}

	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	if err := s.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}

	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if got == nil {
		t.Fatalf("cart document should survive a clear")
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty items, got %+v", got.Items)
	}
}

// A cart document written without a version attribute (the checkout
// transaction materializes one for users who never had a server-side
// cart) must stay fully mutable.
func TestMutations_VersionlessCartDocument(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)
	ctx := context.Background()

	mock.table["u1"] = map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: "u1"},
		"items": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"product_id": &types.AttributeValueMemberS{Value: "p1"},
				"title":      &types.AttributeValueMemberS{Value: "Widget"},
				"price":      &types.AttributeValueMemberN{Value: "10"},
				"quantity":   &types.AttributeValueMemberN{Value: "2"},
			}},
		}},
		"updated_at": &types.AttributeValueMemberS{Value: "2025-05-01T00:00:00Z"},
	}

	if err := s.AddItem(ctx, "u1", Item{ProductID: "p1", Quantity: 3}); err != nil {
		t.Fatalf("add to versionless cart: %v", err)
	}
	got, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 5 {
		t.Fatalf("merge not applied: %+v", got.Items)
	}
	if got.Version != 1 {
		t.Fatalf("version not initialized by the write: %d", got.Version)
	}

	// from here on the document is versioned like any other
	if err := s.SetQuantity(ctx, "u1", "p1", 7); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if err := s.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = s.Get(ctx, "u1")
	if len(got.Items) != 0 {
		t.Fatalf("clear did not empty the cart: %+v", got.Items)
	}
}

func TestClear_VersionlessCartDocument(t *testing.T) {
	mock := newMockDynamo()
	s := newTestStore(mock)

	mock.table["u1"] = map[string]types.AttributeValue{
		"user_id": &types.AttributeValueMemberS{Value: "u1"},
		"items":   &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
	}

	if err := s.Clear(context.Background(), "u1"); err != nil {
		t.Fatalf("clear versionless cart: %v", err)
	}
	if v, ok := mock.table["u1"]["version"]; !ok || v.(*types.AttributeValueMemberN).Value != "1" {
		t.Fatalf("clear did not initialize the version: %+v", mock.table["u1"])
	}
}

func TestGet_AbsentIsNil(t *testing.T) {
	s := newTestStore(newMockDynamo())

	got, err := s.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent cart, got %+v", got)
	}
}

func TestCartRoundTrip(t *testing.T) {
	c := Cart{
		UserID:    "u1",
		Items:     []Item{{ProductID: "p1", Title: "Widget", Price: 9.99, Quantity: 3, Image: "img"}},
		UpdatedAt: time.Now().Round(time.Second),
		Version:   4,
	}
	m, err := attributevalue.MarshalMap(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out Cart
	if err := attributevalue.UnmarshalMap(m, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Items[0] != c.Items[0] || out.Version != c.Version {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}
