// Package view renders the storefront screens to an io.Writer. Views read
// from the injected Store and hold no state of their own.
package view

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"shopfront/internal/model"
	"shopfront/internal/store"
)

// View renders storefront screens from store state.
type View struct {
	store *store.Store
	out   io.Writer
}

// New creates a View writing to out.
func New(s *store.Store, out io.Writer) *View {
	return &View{store: s, out: out}
}

// ProductList renders the catalog: name, caption, and the collapsed
// price range of each product's skus.
func (v *View) ProductList() {
	products := v.store.Products()
	if len(products) == 0 {
		fmt.Fprintln(v.out, "No products available.")
		return
	}

	w := tabwriter.NewWriter(v.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tCAPTION")
	for _, p := range products {
		min, max := p.PriceRange()
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, model.FormatPriceRange(min, max), p.Caption)
	}
	w.Flush()
}

// ProductDetail renders one product with its configuration picker. The
// active sku defaults to the first when activeSku is empty; quantity
// drives the displayed line total.
func (v *View) ProductDetail(id, activeSku string, quantity int) error {
	product, ok := v.store.Product(id)
	if !ok {
		return fmt.Errorf("product %s not loaded", id)
	}
	if quantity < 1 {
		quantity = 1
	}

	fmt.Fprintf(v.out, "%s\n", product.Name)
	if product.Caption != "" {
		fmt.Fprintf(v.out, "%s\n", product.Caption)
	}
	if product.Description != "" {
		fmt.Fprintf(v.out, "\n%s\n", product.Description)
	}
	if len(product.Images) > 0 {
		fmt.Fprintf(v.out, "\nImage: %s\n", product.Images[0])
	}

	skus := product.Skus.Data
	if len(skus) == 0 {
		fmt.Fprintln(v.out, "\nNo configurations available.")
		return nil
	}

	active := skus[0]
	if activeSku != "" {
		found := false
		for _, sku := range skus {
			if sku.ID == activeSku {
				active = sku
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("sku %s not found on product %s", activeSku, id)
		}
	}

	fmt.Fprintln(v.out, "\nConfigurations:")
	for _, sku := range skus {
		marker := " "
		if sku.ID == active.ID {
			marker = "*"
		}
		fmt.Fprintf(v.out, " %s %s  %s  %s\n", marker, sku.ID, model.Dollars(sku.Price), attributeSummary(sku))
	}

	fmt.Fprintf(v.out, "\nQuantity: %d\n", quantity)
	fmt.Fprintf(v.out, "Total: %s\n", model.Dollars(active.Price*int64(quantity)))
	return nil
}

// Cart renders the cart table with per-row totals and the subtotal.
func (v *View) Cart() {
	cart := v.store.Cart()
	if len(cart) == 0 {
		fmt.Fprintln(v.out, "Your cart is empty.")
		return
	}

	// Stable row order for rendering; the mapping itself is unordered.
	skuIDs := make([]string, 0, len(cart))
	for id := range cart {
		skuIDs = append(skuIDs, id)
	}
	sort.Strings(skuIDs)

	w := tabwriter.NewWriter(v.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tSKU\tPRICE\tQTY\tTOTAL")
	for _, id := range skuIDs {
		item := cart[id]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			item.Product.Name,
			item.Sku.ID,
			model.Dollars(item.Sku.Price),
			item.Quantity,
			model.Dollars(item.Sku.Price*int64(item.Quantity)),
		)
	}
	w.Flush()

	fmt.Fprintf(v.out, "\nTotal (%d items): %s\n", cart.Size(), model.Dollars(cart.Subtotal()))
}

// Checkout renders the order summary before submission.
func (v *View) Checkout(email string, shipping model.ShippingInfo) {
	fmt.Fprintln(v.out, "Checkout")
	fmt.Fprintln(v.out, "--------")
	v.Cart()

	if email != "" {
		fmt.Fprintf(v.out, "\nEmail: %s\n", email)
	}
	if shipping.Name != "" {
		fmt.Fprintf(v.out, "Ship to: %s\n", shipping.Name)
		addr := shipping.Address
		if addr.Line1 != "" {
			fmt.Fprintf(v.out, "         %s, %s %s, %s\n", addr.Line1, addr.City, addr.PostalCode, addr.Country)
		}
	}
}

// attributeSummary joins a sku's attributes into a stable display string.
func attributeSummary(sku model.Sku) string {
	if len(sku.Attributes) == 0 {
		return ""
	}

	keys := make([]string, 0, len(sku.Attributes))
	for k := range sku.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k + ": " + sku.Attributes[k]
	}
	return out
}

// OrderResult renders the outcome of a submitted order.
func (v *View) OrderResult(charge *model.Charge) {
	fmt.Fprintln(v.out, "Order placed!")
	fmt.Fprintf(v.out, "  Order: %s\n", charge.ID)
	fmt.Fprintf(v.out, "  Amount: %s %s\n", model.Dollars(charge.Amount), charge.Currency)
	fmt.Fprintf(v.out, "  Status: %s\n", charge.Status)
}
