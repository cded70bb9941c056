package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	dyn "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/acampos831/e-store-backend/internal/aws"
)

// Product is a catalog document in the products table.
type Product struct {
	ID          string  `dynamodbav:"product_id" json:"id"`
	Title       string  `dynamodbav:"title" json:"title"`
	Description string  `dynamodbav:"description" json:"description"`
	Category    string  `dynamodbav:"category" json:"category"`
	Brand       string  `dynamodbav:"brand,omitempty" json:"brand,omitempty"`
	Image       string  `dynamodbav:"image,omitempty" json:"image,omitempty"`
	Price       float64 `dynamodbav:"price" json:"price"`
	Rating      int     `dynamodbav:"rating,omitempty" json:"rating,omitempty"`
	Stock       int     `dynamodbav:"stock" json:"stock"`
}

// ListParams filter and page the catalog listing.
type ListParams struct {
	Page     int
	PerPage  int
	Category string
	Query    string
}

// ListResult is one page of the listing.
type ListResult struct {
	Data        []Product `json:"data"`
	TotalPages  int       `json:"totalPages"`
	CurrentPage int       `json:"currentPage"`
}

const defaultPerPage = 20

// Store is the read path plus the admin CRUD over the products table.
//
// The catalog is flat and small; listing scans the table and filters in
// memory, which mirrors how the storefront's product grid works. There is
// no search index.
type Store struct {
	client    aws.DynamoDBAPI
	tableName string
}

func NewStore(client aws.DynamoDBAPI, tableName string) *Store {
	return &Store{client: client, tableName: tableName}
}

// List returns one page of products, optionally filtered by category
// (exact, case-insensitive) and by a substring query over title and
// description. Results are ordered by product id so pages are stable
// across calls.
func (s *Store) List(ctx context.Context, params ListParams) (ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = defaultPerPage
	}

	all, err := s.scanAll(ctx)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]Product, 0, len(all))
	for _, p := range all {
		if params.Category != "" && !strings.EqualFold(p.Category, params.Category) {
			continue
		}
		if params.Query != "" {
			q := strings.ToLower(params.Query)
			if !strings.Contains(strings.ToLower(p.Title), q) &&
				!strings.Contains(strings.ToLower(p.Description), q) {
				continue
			}
		}
		filtered = append(filtered, p)
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	totalPages := (len(filtered) + params.PerPage - 1) / params.PerPage
	start := (params.Page - 1) * params.PerPage
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + params.PerPage
	if end > len(filtered) {
		end = len(filtered)
	}

	return ListResult{
		Data:        filtered[start:end],
		TotalPages:  totalPages,
		CurrentPage: params.Page,
	}, nil
}

// GetByID fetches one product. Returns (nil, nil) if not found.
func (s *Store) GetByID(ctx context.Context, id string) (*Product, error) {
	out, err := s.client.GetItem(ctx, &dyn.GetItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var p Product
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}
	return &p, nil
}

// Put creates or fully replaces a product document. Admin-only at the
// HTTP layer.
func (s *Store) Put(ctx context.Context, p Product) error {
	if p.ID == "" {
		return fmt.Errorf("put product: id is required")
	}
	av, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dyn.PutItemInput{
		TableName: &s.tableName,
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// Delete removes a product document. Deleting an absent product is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dyn.DeleteItemInput{
		TableName: &s.tableName,
		Key: map[string]types.AttributeValue{
			"product_id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// scanAll pages through the whole products table.
func (s *Store) scanAll(ctx context.Context) ([]Product, error) {
	var (
		all      []Product
		startKey map[string]types.AttributeValue
	)

	for {
		out, err := s.client.Scan(ctx, &dyn.ScanInput{
			TableName:         &s.tableName,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		var page []Product
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, fmt.Errorf("unmarshal products: %w", err)
		}
		all = append(all, page...)

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	return all, nil
}
