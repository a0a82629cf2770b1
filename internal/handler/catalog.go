package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"shopfront/internal/model"
)

// handlePublishableKey returns a tiny script defining the client-visible
// API key, loaded by the client bundle before its own code.
// GET /stripe/key
func (h *Handler) handlePublishableKey(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	fmt.Fprintf(w, "const keyPublishable = %q;", h.publishableKey)
}

// handleListProducts relays the provider's full catalog.
// GET /api/products
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.provider.ListProducts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "listing products", slog.String("error", err.Error()))
		h.writeError(w, err)
		return
	}

	// Always an array, never null
	if products == nil {
		products = []model.Product{}
	}
	h.writeJSON(w, http.StatusOK, products)
}

// handleGetProduct relays one product, wrapped in a single-element array so
// the client ingests list and single responses with the same routine.
// GET /api/products/{id}
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if id == "" {
		h.writeError(w, model.NewValidationError("id", "product ID required"))
		return
	}

	product, err := h.provider.GetProduct(ctx, id)
	if err != nil {
		h.logger.ErrorContext(ctx, "getting product",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, []model.Product{*product})
}
