// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Config holds all service configuration.
// Environment determines whether the Stripe keys load from env vars
// (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// StaticDir is the client bundle directory served with SPA fallback.
	StaticDir string

	// StripeAPIURL overrides the provider endpoint (tests, mocks).
	// Empty means the production Stripe API.
	StripeAPIURL string

	// GCP settings (required in production)
	GCPProject string

	// SecretName is the Secret Manager secret holding the Stripe keys.
	SecretName string

	// Keys holds the Stripe key pair (loaded from secrets in production).
	Keys Keys
}

// Keys contains the Stripe key pair.
// The publishable key is client-visible; the secret key never leaves the
// server process.
type Keys struct {
	PublishableKey string `json:"publishable_key"`
	SecretKey      string `json:"secret_key"`
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → env vars / Secret Manager.
// Both Stripe keys are required; startup fails if either is missing.
func Load(ctx context.Context) (*Config, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:         envOrDefault("PORT", "8000"),
		Environment:  envOrDefault("ENVIRONMENT", "development"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		StaticDir:    envOrDefault("STATIC_DIR", "public"),
		StripeAPIURL: os.Getenv("STRIPE_API_URL"),
		GCPProject:   os.Getenv("GCP_PROJECT"),
		SecretName:   os.Getenv("STRIPE_SECRET_NAME"),
	}

	var err error
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if cfg.SecretName == "" {
			return nil, fmt.Errorf("STRIPE_SECRET_NAME required in production environment")
		}
		err = cfg.loadFromSecretManager(ctx)
	} else {
		err = cfg.loadFromEnv()
	}
	if err != nil {
		return nil, fmt.Errorf("loading Stripe keys: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple env vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port         string `json:"port"`
		Environment  string `json:"environment"`
		LogLevel     string `json:"log_level"`
		StaticDir    string `json:"static_dir"`
		StripeAPIURL string `json:"stripe_api_url"`
		Keys         Keys   `json:"keys"`
	}

	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := &Config{
		Port:         withDefault(fileConfig.Port, "8000"),
		Environment:  withDefault(fileConfig.Environment, "development"),
		LogLevel:     withDefault(fileConfig.LogLevel, "info"),
		StaticDir:    withDefault(fileConfig.StaticDir, "public"),
		StripeAPIURL: fileConfig.StripeAPIURL,
		Keys:         fileConfig.Keys,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager fetches the Stripe key pair from GCP Secret Manager.
// Secret payload format: JSON {"publishable_key": "...", "secret_key": "..."}.
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.SecretName)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	if err := json.Unmarshal(result.Payload.Data, &c.Keys); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

// loadFromEnv reads the Stripe keys from individual environment variables.
// Used in development mode for local testing.
func (c *Config) loadFromEnv() error {
	c.Keys = Keys{
		PublishableKey: os.Getenv("PUBLISHABLE_KEY"),
		SecretKey:      os.Getenv("SECRET_KEY"),
	}
	return nil
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Keys.PublishableKey == "" {
		return fmt.Errorf("PUBLISHABLE_KEY is required")
	}
	if c.Keys.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if c.StripeAPIURL != "" {
		if _, err := url.Parse(c.StripeAPIURL); err != nil {
			return fmt.Errorf("invalid STRIPE_API_URL: %w", err)
		}
	}
	return nil
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
