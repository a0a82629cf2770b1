// MCP transport handler for the storefront using the official MCP Go SDK.
// Exposes the catalog and order operations as agent tools.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"shopfront/internal/metrics"
	"shopfront/internal/model"
	"shopfront/internal/provider"
)

// === MCP Tool Input/Output Types ===

// ListProductsInput is the input schema for the list_products tool.
// The catalog has no filters, so the input carries no fields.
type ListProductsInput struct{}

// ListProductsOutput wraps the catalog so the tool result is an object.
type ListProductsOutput struct {
	Products []model.Product `json:"products"`
}

// GetProductInput is the input schema for the get_product tool.
type GetProductInput struct {
	ID string `json:"id" jsonschema:"product ID,required"`
}

// SubmitOrderInput is the input schema for the submit_order tool.
// Mirrors the POST /api/order body: line items plus contact, shipping,
// and a one-time payment source token.
type SubmitOrderInput struct {
	Email    string             `json:"email" jsonschema:"buyer email address,required"`
	Items    []OrderItemInput   `json:"items" jsonschema:"order line items,required"`
	Source   string             `json:"source" jsonschema:"one-time payment source token,required"`
	Shipping model.ShippingInfo `json:"shipping" jsonschema:"recipient name and address"`
}

// OrderItemInput represents one line item in submit_order.
type OrderItemInput struct {
	Parent   string `json:"parent" jsonschema:"sku ID,required"`
	Quantity int    `json:"quantity" jsonschema:"quantity,required"`
}

// SubmitOrderOutput is the paid-order summary returned by submit_order.
type SubmitOrderOutput struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// NewMCPServer creates an MCP server with storefront tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "shopfront",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "Storefront catalog and ordering. Use list_products and " +
				"get_product to browse, then submit_order with sku line items " +
				"and a payment source token to place a paid order.",
		},
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List all products in the catalog with their skus and prices.",
	}, h.mcpListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get a single product by ID, including its skus.",
	}, h.mcpGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_order",
		Description: "Create an order from sku line items and charge it with the given payment source token.",
	}, h.mcpSubmitOrder)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpListProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListProductsInput,
) (*mcp.CallToolResult, *ListProductsOutput, error) {
	products, err := h.provider.ListProducts(ctx)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	if products == nil {
		products = []model.Product{}
	}
	return nil, &ListProductsOutput{Products: products}, nil
}

func (h *Handler) mcpGetProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, *model.Product, error) {
	if input.ID == "" {
		return nil, nil, fmt.Errorf("id is required")
	}

	product, err := h.provider.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, product, nil
}

func (h *Handler) mcpSubmitOrder(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SubmitOrderInput,
) (*mcp.CallToolResult, *SubmitOrderOutput, error) {
	if len(input.Items) == 0 {
		return nil, nil, fmt.Errorf("items is required")
	}
	if input.Source == "" {
		return nil, nil, fmt.Errorf("source is required")
	}

	items := make([]model.OrderItem, len(input.Items))
	for i, li := range input.Items {
		items[i] = model.OrderItem{
			Type:     "sku",
			Parent:   li.Parent,
			Quantity: li.Quantity,
		}
	}

	idemKey := uuid.NewString()

	order, err := h.provider.CreateOrder(ctx, &provider.CreateOrderRequest{
		Currency:       orderCurrency,
		Email:          input.Email,
		Items:          items,
		Shipping:       input.Shipping,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		h.observeOrder(metrics.OrderFailed)
		return nil, nil, h.mcpError(err)
	}
	h.observeOrder(metrics.OrderCreated)

	paid, err := h.provider.PayOrder(ctx, order.ID, &provider.PayOrderRequest{
		Source:         input.Source,
		IdempotencyKey: idemKey + "-pay",
	})
	if err != nil {
		h.observeOrder(metrics.OrderFailed)
		return nil, nil, h.mcpError(err)
	}
	h.observeOrder(metrics.OrderPaid)

	var charge model.Charge
	if err := json.Unmarshal(paid, &charge); err != nil {
		return nil, nil, h.mcpError(err)
	}

	return nil, &SubmitOrderOutput{
		OrderID:  charge.ID,
		Amount:   charge.Amount,
		Currency: charge.Currency,
		Status:   charge.Status,
	}, nil
}

// mcpError converts provider errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
