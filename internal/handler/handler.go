// Package handler provides HTTP handlers for the storefront API.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"shopfront/internal/metrics"
	"shopfront/internal/model"
	"shopfront/internal/provider"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	provider       provider.Provider
	publishableKey string
	staticDir      string
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// New creates a new Handler.
// The metrics collector may be nil to disable instrumentation (tests).
func New(p provider.Provider, publishableKey, staticDir string, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		provider:       p,
		publishableKey: publishableKey,
		staticDir:      staticDir,
		metrics:        m,
		logger:         logger,
	}
}

// RegisterRoutes registers all HTTP routes with the given ServeMux.
// Uses Go 1.22+ method routing patterns. The root pattern serves the
// static client bundle with SPA fallback, so it must stay last-resort.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Publishable-key script for the client bundle
	mux.HandleFunc("GET /stripe/key", h.handlePublishableKey)

	// Catalog gateway - provider passthrough
	mux.HandleFunc("GET /api/products", h.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.handleGetProduct)

	// Order gateway - create then pay
	mux.HandleFunc("POST /api/order", h.handleSubmitOrder)

	// MCP transport - storefront operations as agent tools
	mux.Handle("/mcp", h.NewMCPHandler())

	// Health check
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /healthz", h.handleHealth)

	// Static client bundle with SPA fallback for client-side routes
	mux.Handle("/", NewSPAHandler(h.staticDir))
}

// === Response Helpers ===

// writeJSON sends a JSON response with the given status code.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeError sends an error response, extracting status/code from APIError if present.
// Uses errors.As() to unwrap error chains (e.g., fmt.Errorf wrapping).
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError

	if errors.As(err, &apiErr) {
		// Found APIError in error chain - use it
	} else {
		// Wrap unexpected errors
		apiErr = &model.APIError{
			Code:       "INTERNAL_ERROR",
			Message:    "an internal error occurred",
			StatusCode: http.StatusInternalServerError,
		}
		h.logger.Error("internal error", slog.String("error", err.Error()))
	}

	h.writeJSON(w, apiErr.StatusCode, errorResponse{
		Error: errorBody{
			Code:    apiErr.Code,
			Message: apiErr.Message,
		},
	})
}

// errorResponse is the JSON structure for catalog error responses.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// observeOrder records an order outcome when metrics are enabled.
func (h *Handler) observeOrder(outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveOrder(outcome)
	}
}

// MaxRequestBodySize limits JSON request bodies to 1MB to prevent DoS.
const MaxRequestBodySize = 1 << 20 // 1MB

// decodeJSON reads JSON from request body into v.
// Limits body size to MaxRequestBodySize to prevent memory exhaustion.
// Returns an APIError if decoding fails.
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxRequestBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Don't expose internal error details to client
		return model.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// handleHealth returns a simple health check response.
// GET /health, GET /healthz
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
