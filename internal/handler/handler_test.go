package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shopfront/internal/model"
	"shopfront/internal/provider"
)

func testHandler(t *testing.T, mock *provider.Mock) (*Handler, *http.ServeMux) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	staticDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(staticDir, "index.html"), []byte("<html>storefront</html>"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := New(mock, "pk_test_abc123", staticDir, nil, logger)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h, mux
}

func testProduct(id string) model.Product {
	return model.Product{
		ID:      id,
		Name:    "Increment Magazine",
		Caption: "A print magazine about how teams build software",
		Skus: model.SkuList{
			Data: []model.Sku{
				{ID: "sku_" + id, Product: id, Price: 1500, Attributes: map[string]string{"issue": "Issue #3"}},
			},
		},
	}
}

func TestHandleHealth(t *testing.T) {
	_, mux := testHandler(t, &provider.Mock{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp healthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("Status = %s, want ok", resp.Status)
	}
}

func TestHandlePublishableKey(t *testing.T) {
	_, mux := testHandler(t, &provider.Mock{})

	req := httptest.NewRequest("GET", "/stripe/key", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
		t.Errorf("Content-Type = %s, want application/javascript", ct)
	}

	body := w.Body.String()
	want := `const keyPublishable = "pk_test_abc123";`
	if body != want {
		t.Errorf("Body = %q, want %q", body, want)
	}
}

func TestHandleListProducts(t *testing.T) {
	tests := []struct {
		name       string
		mock       *provider.Mock
		wantStatus int
		wantCount  int
	}{
		{
			name: "two products",
			mock: &provider.Mock{
				ListProductsFunc: func(ctx context.Context) ([]model.Product, error) {
					return []model.Product{testProduct("prod_1"), testProduct("prod_2")}, nil
				},
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name: "empty catalog returns empty array",
			mock: &provider.Mock{
				ListProductsFunc: func(ctx context.Context) ([]model.Product, error) {
					return nil, nil
				},
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name: "upstream failure",
			mock: &provider.Mock{
				ListProductsFunc: func(ctx context.Context) ([]model.Product, error) {
					return nil, model.NewUpstreamError("stripe", nil)
				},
			},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mux := testHandler(t, tt.mock)

			req := httptest.NewRequest("GET", "/api/products", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var products []model.Product
			if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if products == nil {
				t.Fatal("Body decoded to nil, want JSON array")
			}
			if len(products) != tt.wantCount {
				t.Errorf("len(products) = %d, want %d", len(products), tt.wantCount)
			}
		})
	}
}

func TestHandleGetProduct(t *testing.T) {
	mock := &provider.Mock{
		GetProductFunc: func(ctx context.Context, id string) (*model.Product, error) {
			if id == "prod_1" {
				p := testProduct("prod_1")
				return &p, nil
			}
			return nil, model.NewNotFoundError("product")
		},
	}

	_, mux := testHandler(t, mock)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", "prod_1", http.StatusOK},
		{"not found", "prod_missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/products/"+tt.id, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			// Single products are wrapped in a one-element array so the
			// client renders list and detail with the same code path.
			var products []model.Product
			if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(products) != 1 {
				t.Fatalf("len(products) = %d, want 1", len(products))
			}
			if products[0].ID != tt.id {
				t.Errorf("ID = %s, want %s", products[0].ID, tt.id)
			}
		})
	}
}

func orderBody() []byte {
	b, _ := json.Marshal(model.OrderRequest{
		Email:  "buyer@example.com",
		Items:  []model.OrderItem{{Type: "sku", Parent: "sku_prod_1", Quantity: 2}},
		Source: "tok_visa",
		Shipping: model.ShippingInfo{
			Name: "Jenny Rosen",
			Address: model.ShippingAddress{
				Line1:      "123 Fake St",
				City:       "San Francisco",
				Country:    "US",
				PostalCode: "94103",
			},
		},
	})
	return b
}

func TestHandleSubmitOrder(t *testing.T) {
	paidOrder := json.RawMessage(`{"id":"or_123","amount":3000,"currency":"usd","status":"paid","email":"buyer@example.com"}`)

	t.Run("create then pay", func(t *testing.T) {
		var createKey, payKey, paidOrderID string

		mock := &provider.Mock{
			CreateOrderFunc: func(ctx context.Context, req *provider.CreateOrderRequest) (*model.Order, error) {
				createKey = req.IdempotencyKey
				if req.Currency != "usd" {
					t.Errorf("Currency = %s, want usd", req.Currency)
				}
				if len(req.Items) != 1 || req.Items[0].Parent != "sku_prod_1" {
					t.Errorf("Items = %+v", req.Items)
				}
				return &model.Order{ID: "or_123", Amount: 3000, Currency: "usd", Status: "created"}, nil
			},
			PayOrderFunc: func(ctx context.Context, orderID string, req *provider.PayOrderRequest) (json.RawMessage, error) {
				paidOrderID = orderID
				payKey = req.IdempotencyKey
				if req.Source != "tok_visa" {
					t.Errorf("Source = %s, want tok_visa", req.Source)
				}
				return paidOrder, nil
			},
		}

		_, mux := testHandler(t, mock)

		req := httptest.NewRequest("POST", "/api/order", bytes.NewReader(orderBody()))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}
		if paidOrderID != "or_123" {
			t.Errorf("paid order ID = %s, want or_123", paidOrderID)
		}
		if createKey == "" {
			t.Error("create idempotency key not set")
		}
		if payKey != createKey+"-pay" {
			t.Errorf("pay key = %s, want %s", payKey, createKey+"-pay")
		}

		// Paid-order object is relayed verbatim
		var charge model.Charge
		if err := json.NewDecoder(w.Body).Decode(&charge); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if charge.ID == "" {
			t.Error("charge ID is empty")
		}
		if charge.Status != "paid" {
			t.Errorf("Status = %s, want paid", charge.Status)
		}
	})

	t.Run("declined card", func(t *testing.T) {
		var created bool
		mock := &provider.Mock{
			CreateOrderFunc: func(ctx context.Context, req *provider.CreateOrderRequest) (*model.Order, error) {
				created = true
				return &model.Order{ID: "or_124", Status: "created"}, nil
			},
			PayOrderFunc: func(ctx context.Context, orderID string, req *provider.PayOrderRequest) (json.RawMessage, error) {
				return nil, model.NewPaymentError("Your card was declined.")
			},
		}

		_, mux := testHandler(t, mock)

		req := httptest.NewRequest("POST", "/api/order", bytes.NewReader(orderBody()))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if !created {
			t.Error("order was not created before pay")
		}
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}

		var resp purchaseFailedBody
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Error != "Purchase Failed" {
			t.Errorf("Error = %q, want %q", resp.Error, "Purchase Failed")
		}
	})

	t.Run("create fails", func(t *testing.T) {
		var payCalled bool
		mock := &provider.Mock{
			CreateOrderFunc: func(ctx context.Context, req *provider.CreateOrderRequest) (*model.Order, error) {
				return nil, model.NewUpstreamError("stripe", nil)
			},
			PayOrderFunc: func(ctx context.Context, orderID string, req *provider.PayOrderRequest) (json.RawMessage, error) {
				payCalled = true
				return paidOrder, nil
			},
		}

		_, mux := testHandler(t, mock)

		req := httptest.NewRequest("POST", "/api/order", bytes.NewReader(orderBody()))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusInternalServerError)
		}
		if payCalled {
			t.Error("pay attempted after failed create")
		}

		var resp purchaseFailedBody
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.Error != "Purchase Failed" {
			t.Errorf("Error = %q, want %q", resp.Error, "Purchase Failed")
		}
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{"invalid JSON", `{not json`},
			{"empty items", `{"email":"a@b.co","items":[],"source":"tok_visa"}`},
			{"missing source", `{"email":"a@b.co","items":[{"type":"sku","parent":"sku_1","quantity":1}]}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var providerCalled bool
				mock := &provider.Mock{
					CreateOrderFunc: func(ctx context.Context, req *provider.CreateOrderRequest) (*model.Order, error) {
						providerCalled = true
						return nil, nil
					},
				}

				_, mux := testHandler(t, mock)

				req := httptest.NewRequest("POST", "/api/order", strings.NewReader(tt.body))
				w := httptest.NewRecorder()

				mux.ServeHTTP(w, req)

				if w.Code != http.StatusBadRequest {
					t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
				}
				if providerCalled {
					t.Error("provider called for invalid request")
				}
			})
		}
	})
}

func TestWriteErrorWrapped(t *testing.T) {
	h, _ := testHandler(t, &provider.Mock{})

	w := httptest.NewRecorder()
	h.writeError(w, model.NewNotFoundError("product"))

	if w.Code != http.StatusNotFound {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var resp errorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Code = %s, want NOT_FOUND", resp.Error.Code)
	}
}
