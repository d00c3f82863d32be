package shopify

import (
	"context"
	"fmt"

	"axm-storefront/internal/model"
)

// Source adapts Client to the product source chain.
type Source struct {
	client *Client
	norm   model.NormalizeConfig
}

// NewSource wraps a client as the remote catalog tier.
func NewSource(client *Client, norm model.NormalizeConfig) *Source {
	return &Source{client: client, norm: norm}
}

// Name identifies the tier in logs.
func (s *Source) Name() string { return "shopify" }

// Products lists and normalizes the storefront catalog. An empty catalog
// is reported as model.ErrEmptySource so the chain falls through.
func (s *Source) Products(ctx context.Context) ([]model.Product, error) {
	nodes, err := s.client.GetProducts(ctx)
	if err != nil {
		return nil, err
	}

	raw := make([]model.Product, 0, len(nodes))
	for i := range nodes {
		raw = append(raw, ProductToModel(&nodes[i]))
	}

	products := model.NormalizeAll(raw, s.norm)
	if len(products) == 0 {
		return nil, fmt.Errorf("shopify: %w", model.ErrEmptySource)
	}
	return products, nil
}

// FindProduct fetches a single product by handle.
func (s *Source) FindProduct(ctx context.Context, handle string) (*model.Product, error) {
	node, err := s.client.GetProductByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	p, ok := model.Normalize(ProductToModel(node), s.norm)
	if !ok {
		return nil, model.NewNotFoundError("product")
	}
	return &p, nil
}
