package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"axm-storefront/internal/model"
)

// Tier names reported in Result.
const (
	TierRemote     = "remote"
	TierPrimary    = "primary"
	TierSupplement = "supplement"
	TierFallback   = "fallback"
	TierNone       = "none"
)

// Resolver walks the source tiers in order:
//
//  1. Remote (the commerce API)
//  2. Primary snapshot, unioned with the Supplement snapshot when it loads
//  3. Fallback (the embedded mock catalog)
//
// The supplement layers extra items onto the primary result; it is never
// served on its own. Nil tiers are skipped.
type Resolver struct {
	Remote     Source
	Primary    Source
	Supplement Source
	Fallback   Source
	Logger     *slog.Logger
}

// TierFailure records why a tier was passed over.
type TierFailure struct {
	Tier   string `json:"tier"`
	Source string `json:"source"`
	Err    error  `json:"-"`
}

func (f TierFailure) Error() string {
	return fmt.Sprintf("%s tier (%s): %v", f.Tier, f.Source, f.Err)
}

// Result is the outcome of one resolution.
type Result struct {
	Products []model.Product
	Tier     string
	Failures []TierFailure
}

// Resolve returns the first catalog any tier produces. It never fails;
// when every tier is down the result is empty.
func (r *Resolver) Resolve(ctx context.Context) []model.Product {
	return r.ResolveDetailed(ctx).Products
}

// ResolveDetailed is Resolve with the serving tier and the failures of the
// tiers that were skipped.
func (r *Resolver) ResolveDetailed(ctx context.Context) Result {
	logger := r.logger()
	var res Result

	if products, err := r.try(ctx, TierRemote, r.Remote); err == nil {
		res.Products, res.Tier = products, TierRemote
		return res
	} else if f, ok := failure(err); ok {
		res.Failures = append(res.Failures, f)
	}

	if products, err := r.try(ctx, TierPrimary, r.Primary); err == nil {
		if extra, err := r.try(ctx, TierSupplement, r.Supplement); err == nil {
			products = Union(products, extra)
		} else if f, ok := failure(err); ok {
			res.Failures = append(res.Failures, f)
		}
		res.Products, res.Tier = products, TierPrimary
		return res
	} else if f, ok := failure(err); ok {
		res.Failures = append(res.Failures, f)
	}

	if products, err := r.try(ctx, TierFallback, r.Fallback); err == nil {
		res.Products, res.Tier = products, TierFallback
		return res
	} else if f, ok := failure(err); ok {
		res.Failures = append(res.Failures, f)
	}

	logger.Error("all product tiers failed", "failures", len(res.Failures))
	res.Products, res.Tier = []model.Product{}, TierNone
	return res
}

// errSkipped marks a nil tier; it is not reported as a failure.
var errSkipped = errors.New("tier not set")

func (r *Resolver) try(ctx context.Context, tier string, src Source) ([]model.Product, error) {
	if src == nil {
		return nil, errSkipped
	}
	if err := ctx.Err(); err != nil {
		return nil, TierFailure{Tier: tier, Source: src.Name(), Err: err}
	}

	products, err := src.Products(ctx)
	if err == nil && len(products) == 0 {
		err = model.ErrEmptySource
	}
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, model.ErrNotConfigured) {
			level = slog.LevelDebug
		}
		r.logger().Log(ctx, level, "product tier failed", "tier", tier, "source", src.Name(), "error", err)
		return nil, TierFailure{Tier: tier, Source: src.Name(), Err: err}
	}

	r.logger().Debug("product tier served", "tier", tier, "source", src.Name(), "count", len(products))
	return products, nil
}

func failure(err error) (TierFailure, bool) {
	var f TierFailure
	if errors.As(err, &f) {
		return f, true
	}
	return TierFailure{}, false
}

func (r *Resolver) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

// Union appends the products of extra whose ids are not already in base.
// Base order is kept; base wins on id clash.
func Union(base, extra []model.Product) []model.Product {
	out := make([]model.Product, 0, len(base)+len(extra))
	seen := make(map[model.ProductID]bool, len(base)+len(extra))
	for _, p := range base {
		seen[p.ID] = true
		out = append(out, p)
	}
	for _, p := range extra {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
