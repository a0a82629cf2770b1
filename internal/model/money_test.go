package model

import "testing"

func TestDollars(t *testing.T) {
	tests := []struct {
		name  string
		cents int64
		want  string
	}{
		{"zero renders empty", 0, ""},
		{"cents", 250, "2.50"},
		{"whole dollars drop decimals", 300, "3"},
		{"single cent digit", 205, "2.05"},
		{"sub-dollar", 99, "0.99"},
		{"large whole", 120000, "1200"},
		{"negative", -250, "-2.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dollars(tt.cents); got != tt.want {
				t.Errorf("Dollars(%d) = %q, want %q", tt.cents, got, tt.want)
			}
		})
	}
}

func TestPriceRange(t *testing.T) {
	product := Product{
		ID: "prod_1",
		Skus: SkuList{Data: []Sku{
			{ID: "sku_1", Price: 1000},
			{ID: "sku_2", Price: 500},
			{ID: "sku_3", Price: 750},
		}},
	}

	min, max := product.PriceRange()
	if min != 500 || max != 1000 {
		t.Errorf("PriceRange() = (%d, %d), want (500, 1000)", min, max)
	}

	empty := Product{}
	min, max = empty.PriceRange()
	if min != 0 || max != 0 {
		t.Errorf("PriceRange() on empty product = (%d, %d), want (0, 0)", min, max)
	}
}

func TestFormatPriceRange(t *testing.T) {
	tests := []struct {
		name     string
		min, max int64
		want     string
	}{
		{"equal bounds collapse", 500, 500, "5.00"},
		{"distinct bounds", 500, 1000, "5.00 - 10.00"},
		{"cents kept on both bounds", 199, 10050, "1.99 - 100.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPriceRange(tt.min, tt.max); got != tt.want {
				t.Errorf("FormatPriceRange(%d, %d) = %q, want %q", tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestCartSizeAndSubtotal(t *testing.T) {
	cart := Cart{
		"sku_1": {Sku: Sku{ID: "sku_1", Price: 500}, Quantity: 2},
		"sku_2": {Sku: Sku{ID: "sku_2", Price: 1000}, Quantity: 1},
	}

	if got := cart.Size(); got != 3 {
		t.Errorf("Size() = %d, want 3", got)
	}
	if got := cart.Subtotal(); got != 2000 {
		t.Errorf("Subtotal() = %d, want 2000", got)
	}

	if got := (Cart{}).Size(); got != 0 {
		t.Errorf("empty Size() = %d, want 0", got)
	}
}
