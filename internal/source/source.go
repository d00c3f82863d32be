// Package source defines the product source tiers and the resolver that
// walks them in order until one produces a catalog.
package source

import (
	"context"

	"axm-storefront/internal/model"
)

// Source is one tier of the product chain.
//
// Products returns the normalized catalog held by the tier. An empty
// catalog must be reported as an error (wrapping model.ErrEmptySource)
// so the resolver falls through to the next tier.
type Source interface {
	Name() string
	Products(ctx context.Context) ([]model.Product, error)
}

// ProductFinder is implemented by tiers that can look up a single product
// by handle without downloading the full catalog.
type ProductFinder interface {
	FindProduct(ctx context.Context, handle string) (*model.Product, error)
}
