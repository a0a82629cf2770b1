// shopclient is the CLI storefront client. Each command renders one view
// of the store, making it composable for scripts.
//
// Commands:
//
//	shopclient products -server URL
//	shopclient product -server URL -id <product-id> [-sku ID] [-qty N]
//	shopclient add -server URL -id <product-id> [-sku ID] [-qty N]
//	shopclient remove -sku <sku-id>
//	shopclient qty -sku <sku-id> -n <N>
//	shopclient cart
//	shopclient clear
//	shopclient checkout -server URL -email ADDR -card NUMBER [shipping flags]
//
// Examples:
//
//	shopclient products -server http://localhost:8000
//	shopclient add -server http://localhost:8000 -id prod_123 -qty 2
//	shopclient cart
//	shopclient checkout -server http://localhost:8000 \
//	  -email buyer@example.com -name "Jenny Rosen" \
//	  -card 4242424242424242 -exp 12/2027 -cvc 123
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shopfront/internal/model"
	"shopfront/internal/payment"
	"shopfront/internal/store"
	"shopfront/internal/view"
)

// Global flags (apply to all commands)
var (
	serverURL string
	cartPath  string
	quiet     bool
	noColor   bool
)

// ANSI color codes
var (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

func init() {
	if os.Getenv("NO_COLOR") != "" {
		disableColors()
	}
}

func disableColors() {
	colorReset, colorRed, colorGreen, colorCyan, colorGray = "", "", "", "", ""
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "products":
		runProducts(args)
	case "product":
		runProduct(args)
	case "add":
		runAdd(args)
	case "remove":
		runRemove(args)
	case "qty":
		runQty(args)
	case "cart":
		runCart(args)
	case "clear":
		runClear(args)
	case "checkout":
		runCheckout(args)
	case "-h", "-help", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `shopclient - storefront client

Usage:
  shopclient <command> [options]

Commands:
  products  List the catalog
  product   Show one product with its configurations
  add       Add a sku to the cart
  remove    Remove a sku from the cart
  qty       Set a cart line's quantity
  cart      Show the cart
  clear     Empty the cart
  checkout  Submit the cart as a paid order

Examples:
  shopclient products -server http://localhost:8000
  shopclient add -server http://localhost:8000 -id prod_123 -qty 2
  shopclient cart
  shopclient checkout -server http://localhost:8000 \
    -email buyer@example.com -name "Jenny Rosen" \
    -card 4242424242424242 -exp 12/2027 -cvc 123

Run 'shopclient <command> -h' for command-specific options.
`)
}

// commonFlags registers the flags every command shares.
func commonFlags(fs *flag.FlagSet) {
	fs.StringVar(&serverURL, "server", "http://localhost:8000", "Storefront server base URL")
	fs.StringVar(&cartPath, "cart-file", defaultCartPath(), "Cart persistence file")
	fs.BoolVar(&quiet, "q", false, "Quiet mode - minimal output")
	fs.BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// defaultCartPath keeps the cart next to the user's other state files.
func defaultCartPath() string {
	if p := os.Getenv("SHOPCLIENT_CART"); p != "" {
		return p
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".shopclient-cart.json"
	}
	return filepath.Join(dir, "shopclient", "cart.json")
}

// newStore builds the injected store every command shares.
func newStore() *store.Store {
	api := store.NewClient(serverURL)
	return store.New(api, store.NewCartFile(cartPath))
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// =============================================================================
// CATALOG COMMANDS
// =============================================================================

func runProducts(args []string) {
	fs := flag.NewFlagSet("products", flag.ExitOnError)
	commonFlags(fs)
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	ctx, cancel := withTimeout()
	defer cancel()

	s := newStore()
	if err := s.Load(ctx, ""); err != nil {
		fatal("Failed to load products: %v", err)
	}

	view.New(s, os.Stdout).ProductList()
}

func runProduct(args []string) {
	fs := flag.NewFlagSet("product", flag.ExitOnError)
	commonFlags(fs)
	var productID, skuID string
	var qty int
	fs.StringVar(&productID, "id", "", "Product ID (required)")
	fs.StringVar(&skuID, "sku", "", "Active sku (defaults to first)")
	fs.IntVar(&qty, "qty", 1, "Quantity for the line total")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	if productID == "" {
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := withTimeout()
	defer cancel()

	s := newStore()
	if err := s.Load(ctx, productID); err != nil {
		fatal("Failed to load product: %v", err)
	}

	if err := view.New(s, os.Stdout).ProductDetail(productID, skuID, qty); err != nil {
		fatal("%v", err)
	}
}

// =============================================================================
// CART COMMANDS
// =============================================================================

func runAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	commonFlags(fs)
	var productID, skuID string
	var qty int
	fs.StringVar(&productID, "id", "", "Product ID (required)")
	fs.StringVar(&skuID, "sku", "", "Sku to add (defaults to first)")
	fs.IntVar(&qty, "qty", 1, "Quantity")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	if productID == "" {
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := withTimeout()
	defer cancel()

	s := newStore()
	if err := s.Load(ctx, productID); err != nil {
		fatal("Failed to load product: %v", err)
	}

	product, ok := s.Product(productID)
	if !ok {
		fatal("Product %s not found", productID)
	}
	if len(product.Skus.Data) == 0 {
		fatal("Product %s has no configurations", productID)
	}

	sku := product.Skus.Data[0]
	if skuID != "" {
		found := false
		for _, candidate := range product.Skus.Data {
			if candidate.ID == skuID {
				sku = candidate
				found = true
				break
			}
		}
		if !found {
			fatal("Sku %s not found on product %s", skuID, productID)
		}
	}

	if err := s.AddToCart(product, sku, qty); err != nil {
		fatal("Failed to add to cart: %v", err)
	}

	if quiet {
		fmt.Println(sku.ID)
	} else {
		printSuccess("Added %d × %s (%s)", qty, product.Name, sku.ID)
		printInfo("Cart now holds %d items", s.Cart().Size())
	}
}

func runRemove(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	commonFlags(fs)
	var skuID string
	fs.StringVar(&skuID, "sku", "", "Sku to remove (required)")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	if skuID == "" {
		fs.Usage()
		os.Exit(1)
	}

	s := newStore()
	if err := s.RemoveFromCart(skuID); err != nil {
		fatal("Failed to remove from cart: %v", err)
	}

	printSuccess("Removed %s", skuID)
}

func runQty(args []string) {
	fs := flag.NewFlagSet("qty", flag.ExitOnError)
	commonFlags(fs)
	var skuID string
	var qty int
	fs.StringVar(&skuID, "sku", "", "Cart line's sku (required)")
	fs.IntVar(&qty, "n", 1, "New quantity (below 1 removes the line)")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	if skuID == "" {
		fs.Usage()
		os.Exit(1)
	}

	s := newStore()
	if err := s.UpdateQuantity(skuID, qty); err != nil {
		fatal("Failed to update quantity: %v", err)
	}

	if qty < 1 {
		printSuccess("Removed %s", skuID)
	} else {
		printSuccess("Set %s to %d", skuID, qty)
		printInfo("Cart now holds %d items", s.Cart().Size())
	}
}

func runCart(args []string) {
	fs := flag.NewFlagSet("cart", flag.ExitOnError)
	commonFlags(fs)
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	s := newStore()
	view.New(s, os.Stdout).Cart()
}

func runClear(args []string) {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	commonFlags(fs)
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	s := newStore()
	if err := s.ClearCart(); err != nil {
		fatal("Failed to clear cart: %v", err)
	}

	printSuccess("Cart cleared")
}

// =============================================================================
// CHECKOUT COMMAND
// =============================================================================

func runCheckout(args []string) {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	commonFlags(fs)
	var email, name, line1, city, country, postal string
	var cardNumber, cardExp, cardCVC string
	fs.StringVar(&email, "email", "", "Buyer email (required)")
	fs.StringVar(&name, "name", "", "Recipient name")
	fs.StringVar(&line1, "line1", "", "Shipping address line")
	fs.StringVar(&city, "city", "", "Shipping city")
	fs.StringVar(&country, "country", "US", "Shipping country code")
	fs.StringVar(&postal, "postal", "", "Shipping postal code")
	fs.StringVar(&cardNumber, "card", "", "Card number (required)")
	fs.StringVar(&cardExp, "exp", "", "Card expiry as MM/YYYY (required)")
	fs.StringVar(&cardCVC, "cvc", "", "Card CVC (required)")
	fs.Parse(args)
	if noColor {
		disableColors()
	}

	if email == "" || cardNumber == "" || cardExp == "" || cardCVC == "" {
		fs.Usage()
		os.Exit(1)
	}

	expMonth, expYear, ok := strings.Cut(cardExp, "/")
	if !ok {
		fatal("Invalid -exp %q, want MM/YYYY", cardExp)
	}

	ctx, cancel := withTimeout()
	defer cancel()

	s := newStore()
	if s.Cart().Size() == 0 {
		fatal("Cart is empty")
	}

	shipping := model.ShippingInfo{
		Name: name,
		Address: model.ShippingAddress{
			Line1:      line1,
			City:       city,
			Country:    country,
			PostalCode: postal,
		},
	}

	v := view.New(s, os.Stdout)
	if !quiet {
		v.Checkout(email, shipping)
		fmt.Println()
	}

	// Tokenize directly against the provider; the card number never
	// touches the storefront server.
	api := store.NewClient(serverURL)
	key, err := api.PublishableKey(ctx)
	if err != nil {
		fatal("Failed to fetch publishable key: %v", err)
	}

	field, err := payment.Mount(payment.Config{PublishableKey: key})
	if err != nil {
		fatal("Failed to mount card field: %v", err)
	}
	defer field.Unmount()

	printInfo("Tokenizing card...")
	source, err := field.Tokenize(ctx, payment.Card{
		Number:   cardNumber,
		ExpMonth: expMonth,
		ExpYear:  expYear,
		CVC:      cardCVC,
	})
	if err != nil {
		fatal("Tokenization failed: %v", err)
	}

	printInfo("Submitting order...")
	charge, err := s.Order(ctx, source, email, shipping)
	if err != nil {
		fatal("Checkout failed: %v", err)
	}

	if quiet {
		fmt.Println(charge.ID)
	} else {
		printSuccess("Payment completed!")
		v.OrderResult(charge)
	}
}

// =============================================================================
// OUTPUT HELPERS
// =============================================================================

func printSuccess(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s✓ %s%s\n", colorGreen, fmt.Sprintf(format, args...), colorReset)
	}
}

func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Printf("%s→ %s%s\n", colorGray, fmt.Sprintf(format, args...), colorReset)
	}
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", colorRed, fmt.Sprintf(format, args...), colorReset)
	os.Exit(1)
}
