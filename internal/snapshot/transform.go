package snapshot

import (
	"axm-storefront/internal/model"
)

// toModel maps a snapshot record to the canonical shape. Normalization and
// dropping of unusable records happen in model.NormalizeAll.
func toModel(r rawProduct) model.Product {
	p := model.Product{
		ID:          r.ID,
		Handle:      r.Handle,
		Name:        firstNonEmpty(r.Name, r.Title),
		Description: r.Description,
		Category:    firstNonEmpty(r.Category, r.ProductType),
		Price:       r.Price.money,
		Currency:    r.Currency,
		Images:      r.Images,
		Stock:       r.Stock,
		Colors:      r.Colors,
		Sizes:       r.Sizes,
		Tags:        r.Tags,
		Vendor:      r.Vendor,
	}
	if !r.Price.set {
		p.Price = -1 // rejected by Normalize
	}

	switch {
	case r.CompareAtPrice.set:
		was := r.CompareAtPrice.money
		p.CompareAtPrice = &was
	case r.OriginalPrice.set:
		was := r.OriginalPrice.money
		p.CompareAtPrice = &was
	}

	if len(p.Images) == 0 && r.Image != "" {
		p.Images = []string{r.Image}
	}

	for _, s := range r.Badges {
		if b, ok := model.ParseBadge(s); ok {
			p.Badges = model.AppendBadge(p.Badges, b)
		}
	}
	for _, b := range model.BadgesFromTags(r.Tags) {
		p.Badges = model.AppendBadge(p.Badges, b)
	}
	return p
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
