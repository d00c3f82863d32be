package catalog

import (
	"log/slog"

	"axm-storefront/internal/config"
	"axm-storefront/internal/model"
	"axm-storefront/internal/shopify"
	"axm-storefront/internal/snapshot"
	"axm-storefront/internal/source"
	"axm-storefront/internal/transport"
)

// Tiers are the catalog sources built from configuration.
type Tiers struct {
	Resolver *source.Resolver
	// Shopify is the remote tier. It reports model.ErrNotConfigured on
	// every call when no credentials are set.
	Shopify *shopify.Source
}

// NewTiers wires the Shopify, snapshot and embedded tiers described by cfg.
// Unset snapshot locations yield tiers that are skipped at resolve time.
func NewTiers(cfg *config.Config, logger *slog.Logger) *Tiers {
	norm := model.DefaultNormalizeConfig()

	remote := shopify.NewSource(shopify.NewClient(shopify.Config{
		Domain:     cfg.Shopify.Domain,
		Token:      cfg.Shopify.Token,
		APIVersion: cfg.Shopify.APIVersion,
		HTTPClient: transport.NewClient(transport.Options{Fingerprint: true}),
	}), norm)

	plain := transport.NewClient(transport.Options{})
	return &Tiers{
		Shopify: remote,
		Resolver: &source.Resolver{
			Remote: remote,
			Primary: snapshot.New(snapshot.Config{
				Name:       "primary",
				Location:   cfg.Snapshot.Primary,
				Normalize:  norm,
				HTTPClient: plain,
			}),
			Supplement: snapshot.New(snapshot.Config{
				Name:       "supplement",
				Location:   cfg.Snapshot.Supplement,
				Normalize:  norm,
				HTTPClient: plain,
			}),
			Fallback: snapshot.NewEmbedded(norm),
			Logger:   logger,
		},
	}
}

// Finder returns the remote single-product lookup when Shopify is enabled.
func (t *Tiers) Finder(cfg *config.Config) source.ProductFinder {
	if !cfg.ShopifyEnabled() {
		return nil
	}
	return t.Shopify
}
