// Package stripe implements the payment-provider interface against the
// Stripe API. All Stripe-specific wire types, form encoding, and HTTP
// client logic live here.
package stripe

import "shopfront/internal/model"

// apiVersion pins the Stripe API version this client is written against.
// The orders and skus resources require a version from this line.
const apiVersion = "2017-08-15"

// productList is the Stripe list envelope for GET /v1/products.
// Product skus arrive nested in the same envelope shape (model.SkuList).
type productList struct {
	Object  string          `json:"object"`
	Data    []model.Product `json:"data"`
	HasMore bool            `json:"has_more"`
}

// errorEnvelope is the Stripe error response wrapper.
type errorEnvelope struct {
	Error apiErrorBody `json:"error"`
}

// apiErrorBody carries the provider's error detail. Only logged server-side;
// never relayed to storefront clients on the order path.
type apiErrorBody struct {
	Type        string `json:"type"` // card_error, invalid_request_error, api_error, rate_limit_error
	Code        string `json:"code,omitempty"`
	DeclineCode string `json:"decline_code,omitempty"`
	Message     string `json:"message,omitempty"`
	Param       string `json:"param,omitempty"`
}
