package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/provider"
	"shopfront/internal/transport"
)

// defaultAPIURL is the production Stripe API endpoint. Tests point the
// client at an httptest server instead.
const defaultAPIURL = "https://api.stripe.com"

// userAgent identifies this client to the provider.
const userAgent = "shopfront/1.0"

// Config holds Stripe-specific client configuration.
type Config struct {
	// SecretKey authenticates all server-side API calls.
	SecretKey string

	// APIURL overrides the API base URL. Empty means production.
	APIURL string

	// Timeout bounds each provider call. Zero means 30s.
	Timeout time.Duration
}

// Client implements provider.Provider against the Stripe API.
//
// Stripe requests are form-encoded with Bearer authentication; responses
// are JSON. Mutations carry an Idempotency-Key header so a retried create
// or pay returns the original result instead of acting twice.
type Client struct {
	httpClient *http.Client
	apiURL     string
	secretKey  string
}

// New creates a Stripe client with the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport.New(timeout),
		},
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		secretKey: cfg.SecretKey,
	}, nil
}

// ListProducts fetches the full catalog.
// A direct passthrough: no pagination, filtering, or caching.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/products", nil, "")
	if err != nil {
		return nil, err
	}

	var list productList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("parsing product list: %w", err)
	}
	return list.Data, nil
}

// GetProduct fetches one product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.NewValidationError("id", "product ID required")
	}

	body, err := c.do(ctx, http.MethodGet, "/v1/products/"+url.PathEscape(id), nil, "")
	if err != nil {
		return nil, err
	}

	var product model.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("parsing product: %w", err)
	}
	return &product, nil
}

// CreateOrder creates an unpaid order from the submitted cart lines.
func (c *Client) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, model.NewValidationError("items", "at least one item required")
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/orders", encodeOrder(req), req.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var order model.Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("parsing order: %w", err)
	}
	return &order, nil
}

// PayOrder charges a created order with a one-time source token.
// The raw response is returned so the order gateway can relay the paid
// order object verbatim.
func (c *Client) PayOrder(ctx context.Context, orderID string, req *provider.PayOrderRequest) (json.RawMessage, error) {
	if orderID == "" {
		return nil, model.NewValidationError("order_id", "order ID required")
	}
	if req.Source == "" {
		return nil, model.NewValidationError("source", "payment source token required")
	}

	form := url.Values{}
	form.Set("source", req.Source)

	path := "/v1/orders/" + url.PathEscape(orderID) + "/pay"
	body, err := c.do(ctx, http.MethodPost, path, form, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// encodeOrder flattens a create-order request into Stripe's bracketed
// form encoding: items[0][parent]=sku_x, shipping[address][line1]=..., etc.
func encodeOrder(req *provider.CreateOrderRequest) url.Values {
	form := url.Values{}
	form.Set("currency", req.Currency)
	if req.Email != "" {
		form.Set("email", req.Email)
	}

	for i, item := range req.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		form.Set(prefix+"[type]", item.Type)
		form.Set(prefix+"[parent]", item.Parent)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))
	}

	if req.Shipping.Name != "" || req.Shipping.Address != (model.ShippingAddress{}) {
		form.Set("shipping[name]", req.Shipping.Name)
		form.Set("shipping[address][line1]", req.Shipping.Address.Line1)
		form.Set("shipping[address][city]", req.Shipping.Address.City)
		form.Set("shipping[address][country]", req.Shipping.Address.Country)
		form.Set("shipping[address][postal_code]", req.Shipping.Address.PostalCode)
	}

	return form
}

// do executes a provider request and returns the response body.
// Form values are sent urlencoded for POST; GETs send no body.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, idempotencyKey string) ([]byte, error) {
	var bodyReader io.Reader
	if form != nil {
		bodyReader = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Stripe-Version", apiVersion)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, model.NewUpstreamError("Stripe", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, c.parseErrorResponse(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// parseErrorResponse maps a provider error payload to an APIError.
// The provider's message is preserved in the wrapped error for server
// logs but the order gateway never relays it to storefront clients.
func (c *Client) parseErrorResponse(statusCode int, body []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return model.NewUpstreamError("Stripe",
			fmt.Errorf("status %d with unparseable body", statusCode))
	}
	detail := envelope.Error

	switch {
	case statusCode == http.StatusNotFound:
		return model.NewNotFoundError("product")
	case statusCode == http.StatusUnauthorized:
		return model.NewUnauthorizedError("invalid API key")
	case statusCode == http.StatusTooManyRequests || detail.Type == "rate_limit_error":
		return model.NewRateLimitError("Stripe")
	case detail.Type == "card_error" || statusCode == http.StatusPaymentRequired:
		return model.NewPaymentError(detail.Message)
	case detail.Type == "invalid_request_error":
		return model.NewValidationError(orEmpty(detail.Param, "request"), detail.Message)
	default:
		return model.NewUpstreamError("Stripe",
			fmt.Errorf("%s: %s (status %d)", detail.Type, detail.Message, statusCode))
	}
}

func orEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// Verify Client implements Provider interface at compile time.
var _ provider.Provider = (*Client)(nil)
