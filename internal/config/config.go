// Package config handles loading and validation of service configuration.
// Supports both development (env vars) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"axm-storefront/internal/cart"
	"axm-storefront/internal/model"
)

// Config holds all service configuration.
type Config struct {
	// Server settings
	Port        string `json:"port"`
	Environment string `json:"environment"` // "development" or "production"
	LogLevel    string `json:"log_level"`   // "debug", "info", "warn", "error"

	// GCP settings, used in production to load Shopify credentials
	GCPProject    string `json:"gcp_project,omitempty"`
	ShopifySecret string `json:"shopify_secret,omitempty"`

	Shopify  ShopifyConfig  `json:"shopify"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Checkout CheckoutConfig `json:"checkout"`

	// CartStoreDir holds persisted carts. Empty keeps carts in memory.
	CartStoreDir string `json:"cart_store_dir,omitempty"`

	// MaxCarts bounds the carts held in memory at once.
	MaxCarts int `json:"max_carts,omitempty"`

	// CatalogTTL is the catalog freshness window.
	CatalogTTL time.Duration `json:"-"`

	Pricing cart.Pricing `json:"-"`
}

// ShopifyConfig contains Storefront API credentials.
// In production, this may be loaded from Secret Manager as JSON.
type ShopifyConfig struct {
	Domain     string `json:"domain"`
	Token      string `json:"storefront_token"`
	APIVersion string `json:"api_version,omitempty"`
}

// SnapshotConfig locates the static catalog tiers. Either may be an
// http(s) URL or a file path.
type SnapshotConfig struct {
	Primary    string `json:"primary,omitempty"`
	Supplement string `json:"supplement,omitempty"`
}

// CheckoutConfig contains the handoff merchant details.
type CheckoutConfig struct {
	WhatsAppNumber string `json:"whatsapp_number,omitempty"`
	UPIPayee       string `json:"upi_payee,omitempty"`
	UPIPayeeName   string `json:"upi_payee_name,omitempty"`
}

// Defaults
const (
	DefaultPort       = "8080"
	DefaultAPIVersion = "2024-01"
	DefaultCatalogTTL = 5 * time.Minute
	DefaultMaxCarts   = cart.DefaultMaxCarts
)

// secretAccessor fetches a secret payload. Replaced in tests.
var secretAccessor = accessSecret

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set), then ENV vars / Secret Manager.
// Validates all fields and returns an error describing the first problem.
func Load(ctx context.Context) (*Config, error) {
	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	cfg := &Config{
		Port:          envOrDefault("PORT", DefaultPort),
		Environment:   envOrDefault("ENVIRONMENT", "development"),
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		GCPProject:    os.Getenv("GCP_PROJECT"),
		ShopifySecret: os.Getenv("SHOPIFY_SECRET"),
		Shopify: ShopifyConfig{
			Domain:     os.Getenv("SHOPIFY_DOMAIN"),
			Token:      os.Getenv("SHOPIFY_STOREFRONT_TOKEN"),
			APIVersion: os.Getenv("SHOPIFY_API_VERSION"),
		},
		Snapshot: SnapshotConfig{
			Primary:    os.Getenv("SNAPSHOT_PRIMARY"),
			Supplement: os.Getenv("SNAPSHOT_SUPPLEMENT"),
		},
		Checkout: CheckoutConfig{
			WhatsAppNumber: os.Getenv("WHATSAPP_NUMBER"),
			UPIPayee:       os.Getenv("UPI_PAYEE"),
			UPIPayeeName:   os.Getenv("UPI_PAYEE_NAME"),
		},
		CartStoreDir: os.Getenv("CART_STORE_DIR"),
		Pricing:      cart.DefaultPricing(),
	}

	ttl, err := parseTTL(os.Getenv("CATALOG_TTL"))
	if err != nil {
		return nil, err
	}
	cfg.CatalogTTL = ttl

	if v := os.Getenv("MAX_CARTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_CARTS %q: %w", v, err)
		}
		cfg.MaxCarts = n
	}

	if cfg.Environment == "production" && cfg.GCPProject != "" && cfg.ShopifySecret != "" {
		if err := cfg.loadFromSecretManager(ctx); err != nil {
			return nil, fmt.Errorf("loading shopify config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Config
		CatalogTTL string `json:"catalog_ttl"`
		Pricing    *struct {
			FreeShippingOver float64 `json:"free_shipping_over"`
			ShippingFee      float64 `json:"shipping_fee"`
			TaxRatePercent   float64 `json:"tax_rate_percent"`
		} `json:"pricing"`
	}
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg := fileConfig.Config
	ttl, err := parseTTL(fileConfig.CatalogTTL)
	if err != nil {
		return nil, err
	}
	cfg.CatalogTTL = ttl

	cfg.Pricing = cart.DefaultPricing()
	if p := fileConfig.Pricing; p != nil {
		cfg.Pricing = cart.Pricing{
			FreeShippingOver: model.FromMajor(p.FreeShippingOver),
			ShippingFee:      model.FromMajor(p.ShippingFee),
			TaxRateBPS:       int64(p.TaxRatePercent*100 + 0.5),
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Port = withDefault(c.Port, DefaultPort)
	c.Environment = withDefault(c.Environment, "development")
	c.LogLevel = withDefault(c.LogLevel, "info")
	c.Shopify.APIVersion = withDefault(c.Shopify.APIVersion, DefaultAPIVersion)
	c.Shopify.Domain = normalizeDomain(c.Shopify.Domain)
	if c.CatalogTTL == 0 {
		c.CatalogTTL = DefaultCatalogTTL
	}
	if c.MaxCarts == 0 {
		c.MaxCarts = DefaultMaxCarts
	}
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

func parseTTL(s string) (time.Duration, error) {
	if s == "" {
		return DefaultCatalogTTL, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid CATALOG_TTL %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("CATALOG_TTL must be positive, got %s", s)
	}
	return d, nil
}

// loadFromSecretManager fetches Shopify credentials from GCP Secret Manager.
// Secret name format: projects/{project}/secrets/{secret}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.ShopifySecret)

	payload, err := secretAccessor(ctx, secretName)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, &c.Shopify); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	return nil
}

func accessSecret(ctx context.Context, name string) ([]byte, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name,
	})
	if err != nil {
		return nil, fmt.Errorf("accessing secret %s: %w", name, err)
	}
	return result.Payload.Data, nil
}

// validate checks field formats and combinations.
func (c *Config) validate() error {
	if n, err := strconv.Atoi(c.Port); err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	switch c.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("environment must be development or production, got %q", c.Environment)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}

	if (c.Shopify.Domain == "") != (c.Shopify.Token == "") {
		return fmt.Errorf("shopify domain and storefront_token must be set together")
	}

	for name, loc := range map[string]string{"primary": c.Snapshot.Primary, "supplement": c.Snapshot.Supplement} {
		if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
			if _, err := url.ParseRequestURI(loc); err != nil {
				return fmt.Errorf("invalid %s snapshot url: %w", name, err)
			}
		}
	}

	if c.MaxCarts < 0 {
		return fmt.Errorf("max_carts must not be negative, got %d", c.MaxCarts)
	}

	if c.Pricing.TaxRateBPS < 0 || c.Pricing.ShippingFee < 0 || c.Pricing.FreeShippingOver < 0 {
		return fmt.Errorf("pricing values must not be negative")
	}
	return nil
}

// ShopifyEnabled reports whether the remote catalog tier has credentials.
func (c *Config) ShopifyEnabled() bool {
	return c.Shopify.Domain != "" && c.Shopify.Token != ""
}

// normalizeDomain strips scheme and path from a shop domain.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ""
	}
	if strings.Contains(domain, "://") {
		if u, err := url.Parse(domain); err == nil && u.Host != "" {
			return u.Host
		}
	}
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.Split(domain, "/")[0]
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
