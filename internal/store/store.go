// Package store holds the client-side state: the product cache, the cart,
// and its file persistence. The Store is constructed once at client startup
// and injected into views; there is no package-level singleton.
package store

import (
	"context"
	"fmt"
	"sync"

	"shopfront/internal/model"
)

// API is the subset of the storefront server the store talks to.
type API interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	SubmitOrder(ctx context.Context, order *model.OrderRequest) (*model.Charge, error)
}

// Store is the client's observable state container.
//
// Mutations run on the caller's goroutine; the mutex only exists because
// subscribers may be notified from fetch completions.
type Store struct {
	api  API
	file *CartFile

	mu          sync.Mutex
	products    map[string]model.Product
	order       []string // product IDs in fetch order
	cart        model.Cart
	subscribers []func()
}

// New creates a Store backed by the given API and cart file. The persisted
// cart is loaded immediately; a missing or corrupt file yields an empty cart.
func New(api API, file *CartFile) *Store {
	return &Store{
		api:      api,
		file:     file,
		products: make(map[string]model.Product),
		cart:     file.Load(),
	}
}

// Subscribe registers a listener that runs after every state change.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// notify must be called without the lock held.
func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Load fetches products into the cache. An empty id lists the whole
// catalog; otherwise one product is fetched. Fetched products are merged
// into the cache by ID.
func (s *Store) Load(ctx context.Context, id string) error {
	var fetched []model.Product

	if id == "" {
		products, err := s.api.ListProducts(ctx)
		if err != nil {
			return err
		}
		fetched = products
	} else {
		product, err := s.api.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		fetched = []model.Product{*product}
	}

	s.mu.Lock()
	for _, p := range fetched {
		if _, seen := s.products[p.ID]; !seen {
			s.order = append(s.order, p.ID)
		}
		s.products[p.ID] = p
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Products returns cached products in fetch order.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := make([]model.Product, 0, len(s.order))
	for _, id := range s.order {
		products = append(products, s.products[id])
	}
	return products
}

// Product returns a cached product by ID.
func (s *Store) Product(id string) (model.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	return p, ok
}

// Cart returns a snapshot of the current cart.
func (s *Store) Cart() model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make(model.Cart, len(s.cart))
	for id, item := range s.cart {
		snapshot[id] = item
	}
	return snapshot
}

// AddToCart adds qty of the sku to the cart, incrementing the existing
// line if the sku is already present. The parent product is denormalized
// into the line so views render without a catalog lookup.
func (s *Store) AddToCart(product model.Product, sku model.Sku, qty int) error {
	if qty < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}

	s.mu.Lock()
	if item, ok := s.cart[sku.ID]; ok {
		item.Quantity += qty
		s.cart[sku.ID] = item
	} else {
		s.cart[sku.ID] = model.CartItem{Product: product, Sku: sku, Quantity: qty}
	}
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// RemoveFromCart deletes the sku's line. Removing an absent sku is a no-op.
func (s *Store) RemoveFromCart(skuID string) error {
	s.mu.Lock()
	if _, ok := s.cart[skuID]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.cart, skuID)
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// UpdateQuantity sets the sku's quantity. A quantity below 1 removes
// the line.
func (s *Store) UpdateQuantity(skuID string, qty int) error {
	if qty < 1 {
		return s.RemoveFromCart(skuID)
	}

	s.mu.Lock()
	item, ok := s.cart[skuID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("sku %s not in cart", skuID)
	}
	item.Quantity = qty
	s.cart[skuID] = item
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// ClearCart empties the cart.
func (s *Store) ClearCart() error {
	s.mu.Lock()
	s.cart = model.Cart{}
	err := s.persistLocked()
	s.mu.Unlock()

	s.notify()
	return err
}

// Order submits the cart as an order paid with the given source token.
// The cart is cleared only after a successful submission; a failed
// checkout leaves it intact for retry.
func (s *Store) Order(ctx context.Context, source, email string, shipping model.ShippingInfo) (*model.Charge, error) {
	s.mu.Lock()
	if len(s.cart) == 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("cart is empty")
	}

	items := make([]model.OrderItem, 0, len(s.cart))
	for skuID, item := range s.cart {
		items = append(items, model.OrderItem{
			Type:     "sku",
			Parent:   skuID,
			Quantity: item.Quantity,
		})
	}
	s.mu.Unlock()

	charge, err := s.api.SubmitOrder(ctx, &model.OrderRequest{
		Email:    email,
		Items:    items,
		Source:   source,
		Shipping: shipping,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ClearCart(); err != nil {
		// The order went through; a persistence failure must not mask it.
		return charge, nil
	}
	return charge, nil
}

// persistLocked saves the cart; the caller holds the mutex.
func (s *Store) persistLocked() error {
	return s.file.Save(s.cart)
}
