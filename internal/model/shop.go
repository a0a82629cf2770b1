// Package model defines the storefront domain types shared by the server
// gateways and the client cart store.
package model

// Product is a catalog record from the payment provider.
// Immutable once fetched; the client caches products by ID.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Caption     string   `json:"caption"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Skus        SkuList  `json:"skus"`
}

// SkuList mirrors the provider's list-object envelope so a single decoder
// serves both the bulk and single-product endpoints.
type SkuList struct {
	Data []Sku `json:"data"`
}

// Sku is a purchasable configuration of a product with its own price.
type Sku struct {
	ID         string            `json:"id"`
	Product    string            `json:"product"` // parent product ID
	Price      int64             `json:"price"`   // minor currency units
	Attributes map[string]string `json:"attributes,omitempty"`
}

// CartItem is one cart line, keyed by sku ID. The parent product is
// denormalized at add time so views render without a catalog lookup.
type CartItem struct {
	Product  Product `json:"product"`
	Sku      Sku     `json:"sku"`
	Quantity int     `json:"quantity"` // always >= 1
}

// Cart maps sku ID to the line selected for it.
type Cart map[string]CartItem

// Size returns the total quantity across all lines (the cart badge count).
func (c Cart) Size() int {
	total := 0
	for _, item := range c {
		total += item.Quantity
	}
	return total
}

// Subtotal returns the cart total in minor currency units.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, item := range c {
		total += item.Sku.Price * int64(item.Quantity)
	}
	return total
}

// OrderItem is one line of an order submission, provider wire format.
type OrderItem struct {
	Type     string `json:"type"`   // always "sku"
	Parent   string `json:"parent"` // sku ID
	Quantity int    `json:"quantity"`
}

// ShippingAddress holds the destination fields collected at checkout.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// ShippingInfo pairs a recipient name with the destination address.
type ShippingInfo struct {
	Name    string          `json:"name"`
	Address ShippingAddress `json:"address"`
}

// OrderRequest is the POST /api/order body: the cart flattened to order
// items plus contact, shipping, and the one-time payment source token.
// Never persisted client-side.
type OrderRequest struct {
	Email    string       `json:"email"`
	Items    []OrderItem  `json:"items"`
	Source   string       `json:"source"`
	Shipping ShippingInfo `json:"shipping"`
}

// Order is the subset of the provider's order object the gateways read.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// Charge is the subset of the paid-order object the client reads back.
// The server relays the provider response verbatim; this type only decodes
// the fields the client renders.
type Charge struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Email    string `json:"email"`
}
