// Package provider defines the interface to the external payment provider.
// The storefront server is a thin pass-through; everything the gateways do
// goes through this interface so handlers stay provider-agnostic and testable.
package provider

import (
	"context"
	"encoding/json"

	"shopfront/internal/model"
)

// Provider abstracts the payment provider's catalog and order operations.
//
// All methods return storefront model types ready for API serialization.
// Provider-specific error handling is encapsulated within the implementation:
// failures surface as *model.APIError values.
type Provider interface {
	// ListProducts fetches the full catalog. No pagination or filtering;
	// the storefront relays exactly what the provider returns.
	ListProducts(ctx context.Context) ([]model.Product, error)

	// GetProduct fetches one product by ID.
	// Returns a NOT_FOUND APIError when the provider has no such ID.
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// CreateOrder creates an order from the given line items and returns it.
	// The order is created unpaid; PayOrder charges it.
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error)

	// PayOrder charges an existing order with a one-time payment source
	// token. Returns the provider's paid-order object verbatim so the
	// gateway can relay it without reshaping.
	PayOrder(ctx context.Context, orderID string, req *PayOrderRequest) (json.RawMessage, error)
}

// CreateOrderRequest contains data for creating a provider order.
type CreateOrderRequest struct {
	// Currency is the ISO code for the order. The storefront always
	// submits "usd".
	Currency string

	// Email is the buyer's contact address.
	Email string

	// Items are the cart lines flattened to provider order items.
	Items []model.OrderItem

	// Shipping is the recipient name and destination address.
	Shipping model.ShippingInfo

	// IdempotencyKey makes a retried create return the original order
	// instead of creating a second one.
	IdempotencyKey string
}

// PayOrderRequest contains data for paying a created order.
type PayOrderRequest struct {
	// Source is the one-time payment source token from the provider's
	// client-side card tokenization.
	Source string

	// IdempotencyKey makes a retried pay return the original charge
	// instead of charging twice.
	IdempotencyKey string
}
