package provider

import (
	"context"
	"encoding/json"

	"shopfront/internal/model"
)

// Mock implements Provider for testing.
// Each method can be configured via function fields.
type Mock struct {
	ListProductsFunc func(ctx context.Context) ([]model.Product, error)
	GetProductFunc   func(ctx context.Context, id string) (*model.Product, error)
	CreateOrderFunc  func(ctx context.Context, req *CreateOrderRequest) (*model.Order, error)
	PayOrderFunc     func(ctx context.Context, orderID string, req *PayOrderRequest) (json.RawMessage, error)
}

// ListProducts calls the configured ListProductsFunc or returns an empty catalog.
func (m *Mock) ListProducts(ctx context.Context) ([]model.Product, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx)
	}
	return []model.Product{}, nil
}

// GetProduct calls the configured GetProductFunc or returns not found.
func (m *Mock) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return nil, model.NewNotFoundError("product")
}

// CreateOrder calls the configured CreateOrderFunc or returns an error.
func (m *Mock) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, req)
	}
	return nil, model.NewInternalError(nil)
}

// PayOrder calls the configured PayOrderFunc or returns an error.
func (m *Mock) PayOrder(ctx context.Context, orderID string, req *PayOrderRequest) (json.RawMessage, error) {
	if m.PayOrderFunc != nil {
		return m.PayOrderFunc(ctx, orderID, req)
	}
	return nil, model.NewInternalError(nil)
}

// Verify Mock implements Provider interface at compile time.
var _ Provider = (*Mock)(nil)
