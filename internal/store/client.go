package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"shopfront/internal/model"
)

// Verify Client satisfies the store's API at compile time.
var _ API = (*Client)(nil)

// Client talks to the storefront server's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an API client for the given storefront base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ListProducts fetches the full catalog.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.getJSON(ctx, "/api/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches one product. The server wraps single products in a
// one-element array.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var products []model.Product
	if err := c.getJSON(ctx, "/api/products/"+url.PathEscape(id), &products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("empty product response")
	}
	return &products[0], nil
}

// SubmitOrder posts the order and returns the paid-order object.
func (c *Client) SubmitOrder(ctx context.Context, order *model.OrderRequest) (*model.Charge, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("marshaling order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submitting order: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order failed: HTTP %d: %s", resp.StatusCode, respBody)
	}

	var charge model.Charge
	if err := json.Unmarshal(respBody, &charge); err != nil {
		return nil, fmt.Errorf("parsing charge: %w", err)
	}
	return &charge, nil
}

// keyPattern matches the publishable-key assignment in the key script.
var keyPattern = regexp.MustCompile(`keyPublishable\s*=\s*"([^"]+)"`)

// PublishableKey fetches the client-side key from the key script endpoint.
func (c *Client) PublishableKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stripe/key", nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching key: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading key script: %w", err)
	}

	m := keyPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("no publishable key in script")
	}
	return string(m[1]), nil
}

func (c *Client) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fetching %s: HTTP %d: %s", path, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
