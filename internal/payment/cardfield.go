// Package payment tokenizes card details against the payment provider
// with the client-visible publishable key. Card numbers pass through the
// CardField straight to the provider and never reach the storefront server.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"shopfront/internal/transport"
)

// ErrUnmounted is returned when a CardField is used after Unmount.
var ErrUnmounted = errors.New("card field is unmounted")

const defaultTokenURL = "https://api.stripe.com/v1/tokens"

// Card holds the details entered into the card field.
type Card struct {
	Number   string
	ExpMonth string
	ExpYear  string
	CVC      string
}

// Config configures a CardField.
type Config struct {
	// PublishableKey authenticates tokenization requests. Required.
	PublishableKey string

	// TokenURL overrides the provider's token endpoint (tests).
	TokenURL string

	// Timeout bounds each tokenization call. Zero means 30s.
	Timeout time.Duration
}

// CardField is the tokenization resource for one checkout session.
// Mount it on checkout entry and Unmount it on every exit path; a field
// is never usable again after Unmount.
type CardField struct {
	httpClient *http.Client
	tokenURL   string
	key        string

	mu        sync.Mutex
	unmounted bool
}

// Mount creates a card field ready to tokenize.
func Mount(cfg Config) (*CardField, error) {
	if cfg.PublishableKey == "" {
		return nil, fmt.Errorf("publishable key is required")
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &CardField{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport.New(timeout),
		},
		tokenURL: tokenURL,
		key:      cfg.PublishableKey,
	}, nil
}

// Unmount releases the field. Safe to call more than once.
func (f *CardField) Unmount() {
	f.mu.Lock()
	f.unmounted = true
	f.mu.Unlock()
}

// Tokenize exchanges card details for a one-time source token.
func (f *CardField) Tokenize(ctx context.Context, card Card) (string, error) {
	f.mu.Lock()
	if f.unmounted {
		f.mu.Unlock()
		return "", ErrUnmounted
	}
	f.mu.Unlock()

	if card.Number == "" {
		return "", fmt.Errorf("card number is required")
	}

	form := url.Values{}
	form.Set("card[number]", card.Number)
	form.Set("card[exp_month]", card.ExpMonth)
	form.Set("card[exp_year]", card.ExpYear)
	form.Set("card[cvc]", card.CVC)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+f.key)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tokenizing card: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
			return "", fmt.Errorf("tokenization failed: %s", envelope.Error.Message)
		}
		return "", fmt.Errorf("tokenization failed: HTTP %d", resp.StatusCode)
	}

	var token struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("parsing token: %w", err)
	}
	if token.ID == "" {
		return "", fmt.Errorf("empty token in response")
	}
	return token.ID, nil
}
