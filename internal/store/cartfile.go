package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shopfront/internal/model"
)

// CartFile persists the cart as JSON on disk. Every save rewrites the
// whole cart through a temp file and rename, so a crash mid-write never
// leaves a torn file behind.
type CartFile struct {
	path string
}

// NewCartFile creates a cart file at the given path.
func NewCartFile(path string) *CartFile {
	return &CartFile{path: path}
}

// Load reads the persisted cart. A missing or corrupt file loads as an
// empty cart rather than an error: stale local state must never block
// the client from starting.
func (f *CartFile) Load() model.Cart {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return model.Cart{}
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return model.Cart{}
	}
	if cart == nil {
		cart = model.Cart{}
	}
	return cart
}

// Save writes the cart atomically.
func (f *CartFile) Save(cart model.Cart) error {
	data, err := json.MarshalIndent(cart, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cart: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cart dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cart-*.json")
	if err != nil {
		return fmt.Errorf("creating temp cart file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cart: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cart file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing cart file: %w", err)
	}
	return nil
}
