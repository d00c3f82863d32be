package shopify

import (
	"strings"

	"axm-storefront/internal/model"
)

// ProductToModel converts a Storefront product node to the canonical shape.
// The result still goes through model.Normalize before it is served.
func ProductToModel(sp *ShopifyProduct) model.Product {
	if sp == nil {
		return model.Product{}
	}

	p := model.Product{
		ID:          model.ProductID(sp.ID),
		Handle:      sp.Handle,
		Name:        sp.Title,
		Description: sp.Description,
		Category:    sp.ProductType,
		Price:       model.ParseAmount(sp.PriceRange.MinVariantPrice.Amount),
		Currency:    sp.PriceRange.MinVariantPrice.CurrencyCode,
		Badges:      model.BadgesFromTags(sp.Tags),
		Tags:        sp.Tags,
		Vendor:      sp.Vendor,
	}

	for _, edge := range sp.Images.Edges {
		p.Images = append(p.Images, edge.Node.URL)
	}

	for i, edge := range sp.Variants.Edges {
		v := edge.Node
		if i == 0 && v.CompareAtPrice != nil {
			if was := model.ParseAmount(v.CompareAtPrice.Amount); was > 0 {
				p.CompareAtPrice = &was
			}
		}
		p.Variants = append(p.Variants, variantToModel(v))
	}

	p.Sizes = optionValues(sp, "size")
	p.Colors = optionValues(sp, "color", "colour")
	p.Stock = stockFromVariants(sp.Variants.Edges)

	if p.OnSale() {
		p.Badges = model.AppendBadge(p.Badges, model.BadgeSale)
	}
	return p
}

func variantToModel(v ShopifyVariant) model.Variant {
	mv := model.Variant{
		ID:        v.ID,
		Title:     v.Title,
		Price:     model.ParseAmount(v.Price.Amount),
		Available: v.AvailableForSale,
	}
	if len(v.SelectedOptions) > 0 {
		mv.Options = make(map[string]string, len(v.SelectedOptions))
		for _, o := range v.SelectedOptions {
			mv.Options[o.Name] = o.Value
		}
	}
	return mv
}

// optionValues returns the values of the first option whose name matches
// one of names. Products listed without options fall back to the values
// seen on variants.
func optionValues(sp *ShopifyProduct, names ...string) []string {
	match := func(name string) bool {
		for _, n := range names {
			if strings.EqualFold(name, n) {
				return true
			}
		}
		return false
	}

	for _, o := range sp.Options {
		if match(o.Name) {
			return o.Values
		}
	}

	var values []string
	seen := map[string]bool{}
	for _, edge := range sp.Variants.Edges {
		for _, so := range edge.Node.SelectedOptions {
			if match(so.Name) && !seen[so.Value] {
				seen[so.Value] = true
				values = append(values, so.Value)
			}
		}
	}
	return values
}

// stockFromVariants builds per-size stock when variants report
// quantityAvailable and a Size option. Otherwise the total is used, and
// without any quantities stock stays unknown.
func stockFromVariants(edges []VariantEdge) model.Stock {
	bySize := map[string]int{}
	total, counted := 0, false
	for _, edge := range edges {
		v := edge.Node
		if v.QuantityAvailable == nil {
			continue
		}
		counted = true
		total += *v.QuantityAvailable
		for _, so := range v.SelectedOptions {
			if strings.EqualFold(so.Name, "size") {
				bySize[so.Value] += *v.QuantityAvailable
			}
		}
	}
	switch {
	case len(bySize) > 0:
		return model.Stock{BySize: bySize}
	case counted:
		return model.Quantity(total)
	default:
		return model.Stock{}
	}
}
