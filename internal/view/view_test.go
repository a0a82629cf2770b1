package view

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"shopfront/internal/model"
	"shopfront/internal/store"
)

type fakeAPI struct {
	products []model.Product
}

func (f *fakeAPI) ListProducts(ctx context.Context) ([]model.Product, error) {
	return f.products, nil
}

func (f *fakeAPI) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, model.NewNotFoundError("product")
}

func (f *fakeAPI) SubmitOrder(ctx context.Context, order *model.OrderRequest) (*model.Charge, error) {
	return &model.Charge{ID: "or_1", Status: "paid"}, nil
}

func testCatalog() []model.Product {
	return []model.Product{
		{
			ID:      "prod_single",
			Name:    "Single Price",
			Caption: "One configuration",
			Skus: model.SkuList{Data: []model.Sku{
				{ID: "sku_a", Product: "prod_single", Price: 500},
			}},
		},
		{
			ID:          "prod_range",
			Name:        "Ranged Price",
			Caption:     "Two configurations",
			Description: "Comes in two sizes.",
			Images:      []string{"https://example.com/ranged.png"},
			Skus: model.SkuList{Data: []model.Sku{
				{ID: "sku_b", Product: "prod_range", Price: 500, Attributes: map[string]string{"size": "small"}},
				{ID: "sku_c", Product: "prod_range", Price: 1000, Attributes: map[string]string{"size": "large"}},
			}},
		},
	}
}

func testView(t *testing.T) (*store.Store, *View, *bytes.Buffer) {
	t.Helper()

	api := &fakeAPI{products: testCatalog()}
	s := store.New(api, store.NewCartFile(filepath.Join(t.TempDir(), "cart.json")))
	if err := s.Load(context.Background(), ""); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	return s, New(s, &buf), &buf
}

func TestProductListPriceRanges(t *testing.T) {
	_, v, buf := testView(t)

	v.ProductList()
	out := buf.String()

	// Equal bounds collapse, unequal bounds show the range
	if !strings.Contains(out, "5.00") {
		t.Errorf("output missing collapsed price:\n%s", out)
	}
	if !strings.Contains(out, "5.00 - 10.00") {
		t.Errorf("output missing price range:\n%s", out)
	}
	if !strings.Contains(out, "Single Price") || !strings.Contains(out, "Ranged Price") {
		t.Errorf("output missing product names:\n%s", out)
	}
}

func TestProductDetailDefaultsToFirstSku(t *testing.T) {
	_, v, buf := testView(t)

	if err := v.ProductDetail("prod_range", "", 1); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "* sku_b") {
		t.Errorf("first sku not active by default:\n%s", out)
	}
	if !strings.Contains(out, "Total: 5") {
		t.Errorf("total not from first sku:\n%s", out)
	}
	if !strings.Contains(out, "https://example.com/ranged.png") {
		t.Errorf("image URL missing:\n%s", out)
	}
}

func TestProductDetailActiveSkuAndQuantity(t *testing.T) {
	_, v, buf := testView(t)

	if err := v.ProductDetail("prod_range", "sku_c", 3); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	if !strings.Contains(out, "* sku_c") {
		t.Errorf("selected sku not active:\n%s", out)
	}
	// 3 × 10.00 = 30, whole dollars drop decimals
	if !strings.Contains(out, "Total: 30") {
		t.Errorf("line total wrong:\n%s", out)
	}
}

func TestProductDetailUnknownSku(t *testing.T) {
	_, v, _ := testView(t)

	if err := v.ProductDetail("prod_range", "sku_missing", 1); err == nil {
		t.Fatal("expected error for unknown sku")
	}
}

func TestCartView(t *testing.T) {
	s, v, buf := testView(t)

	product, _ := s.Product("prod_range")
	s.AddToCart(product, product.Skus.Data[0], 2)

	v.Cart()
	out := buf.String()

	if !strings.Contains(out, "Ranged Price") {
		t.Errorf("item name missing:\n%s", out)
	}
	// 2 × 5.00 = 10, whole dollars drop decimals
	if !strings.Contains(out, "Total (2 items): 10") {
		t.Errorf("total wrong:\n%s", out)
	}
}

func TestCartViewEmpty(t *testing.T) {
	_, v, buf := testView(t)

	v.Cart()

	if !strings.Contains(buf.String(), "empty") {
		t.Errorf("empty cart message missing:\n%s", buf.String())
	}
}

func TestCheckoutView(t *testing.T) {
	s, v, buf := testView(t)

	product, _ := s.Product("prod_single")
	s.AddToCart(product, product.Skus.Data[0], 1)

	shipping := model.ShippingInfo{
		Name: "Jenny Rosen",
		Address: model.ShippingAddress{
			Line1:      "123 Fake St",
			City:       "San Francisco",
			Country:    "US",
			PostalCode: "94103",
		},
	}
	v.Checkout("buyer@example.com", shipping)
	out := buf.String()

	if !strings.Contains(out, "buyer@example.com") {
		t.Errorf("email missing:\n%s", out)
	}
	if !strings.Contains(out, "Jenny Rosen") || !strings.Contains(out, "123 Fake St") {
		t.Errorf("shipping missing:\n%s", out)
	}
}

func TestOrderResult(t *testing.T) {
	_, v, buf := testView(t)

	v.OrderResult(&model.Charge{ID: "or_1", Amount: 1500, Currency: "usd", Status: "paid"})
	out := buf.String()

	if !strings.Contains(out, "or_1") || !strings.Contains(out, "paid") {
		t.Errorf("order result incomplete:\n%s", out)
	}
}
