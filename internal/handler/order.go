package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"shopfront/internal/metrics"
	"shopfront/internal/model"
	"shopfront/internal/provider"
)

// orderCurrency is fixed: the storefront only sells in US dollars.
const orderCurrency = "usd"

// purchaseFailedBody is the only error detail the order path ever leaks.
// Provider error specifics stay in server logs.
type purchaseFailedBody struct {
	Error string `json:"error"`
}

// handleSubmitOrder creates an order with the provider and immediately
// charges it with the supplied one-time source token. Strictly sequential:
// pay is only attempted after a successful create.
// POST /api/order
func (h *Handler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.OrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if len(req.Items) == 0 {
		h.writeError(w, model.NewValidationError("items", "at least one item required"))
		return
	}
	if req.Source == "" {
		h.writeError(w, model.NewValidationError("source", "payment source token required"))
		return
	}

	h.logger.InfoContext(ctx, "submitting order",
		slog.Int("items", len(req.Items)),
		slog.Bool("has_shipping", req.Shipping != model.ShippingInfo{}),
	)

	// One key per submission makes a caller's network retry safe: the
	// provider returns the original order/charge instead of acting twice.
	idemKey := uuid.NewString()

	order, err := h.provider.CreateOrder(ctx, &provider.CreateOrderRequest{
		Currency:       orderCurrency,
		Email:          req.Email,
		Items:          req.Items,
		Shipping:       req.Shipping,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "creating order", slog.String("error", err.Error()))
		h.observeOrder(metrics.OrderFailed)
		h.writePurchaseFailed(w)
		return
	}
	h.observeOrder(metrics.OrderCreated)

	charge, err := h.provider.PayOrder(ctx, order.ID, &provider.PayOrderRequest{
		Source:         req.Source,
		IdempotencyKey: idemKey + "-pay",
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "paying order",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		h.observeOrder(metrics.OrderFailed)
		h.writePurchaseFailed(w)
		return
	}
	h.observeOrder(metrics.OrderPaid)

	// Relay the provider's paid-order object verbatim
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(charge); err != nil {
		h.logger.Error("failed to write response", slog.String("error", err.Error()))
	}
}

// writePurchaseFailed sends the generic order failure response. Provider
// error detail is intentionally withheld from clients on this path.
func (h *Handler) writePurchaseFailed(w http.ResponseWriter) {
	h.writeJSON(w, http.StatusInternalServerError, purchaseFailedBody{Error: "Purchase Failed"})
}
