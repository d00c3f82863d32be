package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Badge is a promotional tag on a product. The set is closed: display
// strings and commerce tags both map through explicit tables so filtering
// and decoration agree on spelling.
type Badge string

const (
	BadgeNew          Badge = "NEW"
	BadgeBestSeller   Badge = "BEST SELLER"
	BadgeSale         Badge = "SALE"
	BadgeVault        Badge = "VAULT"
	BadgeLimited      Badge = "LIMITED"
	BadgeRebelDrop    Badge = "REBEL DROP"
	BadgePredatorDrop Badge = "PREDATOR DROP"
)

// Badges lists every known badge in display priority order.
var Badges = []Badge{
	BadgeVault,
	BadgeLimited,
	BadgePredatorDrop,
	BadgeRebelDrop,
	BadgeNew,
	BadgeBestSeller,
	BadgeSale,
}

// badgeNames maps normalized display strings to badges.
var badgeNames = map[string]Badge{
	"new":           BadgeNew,
	"best seller":   BadgeBestSeller,
	"bestseller":    BadgeBestSeller,
	"best-seller":   BadgeBestSeller,
	"sale":          BadgeSale,
	"vault":         BadgeVault,
	"limited":       BadgeLimited,
	"rebel drop":    BadgeRebelDrop,
	"predator drop": BadgePredatorDrop,
}

// commerceTags maps lowercase Shopify product tags to badges.
var commerceTags = map[string]Badge{
	"new":             BadgeNew,
	"bestseller":      BadgeBestSeller,
	"best-seller":     BadgeBestSeller,
	"sale":            BadgeSale,
	"vault":           BadgeVault,
	"og-rank-vault":   BadgeVault,
	"limited":         BadgeLimited,
	"og-limited-true": BadgeLimited,
	"rebel-drop":      BadgeRebelDrop,
	"predator-drop":   BadgePredatorDrop,
}

// ParseBadge maps a display string such as "Best Seller" to a Badge.
func ParseBadge(s string) (Badge, bool) {
	b, ok := badgeNames[strings.ToLower(strings.TrimSpace(s))]
	return b, ok
}

// BadgeForTag maps a commerce tag such as "bestseller" to a Badge.
func BadgeForTag(tag string) (Badge, bool) {
	b, ok := commerceTags[strings.ToLower(strings.TrimSpace(tag))]
	return b, ok
}

// BadgesFromTags derives the badge set from a list of commerce tags,
// in tag order, without duplicates.
func BadgesFromTags(tags []string) []Badge {
	badges := make([]Badge, 0, len(tags))
	for _, tag := range tags {
		if b, ok := BadgeForTag(tag); ok {
			badges = AppendBadge(badges, b)
		}
	}
	return badges
}

// AppendBadge appends b unless it is already present.
func AppendBadge(badges []Badge, b Badge) []Badge {
	for _, have := range badges {
		if have == b {
			return badges
		}
	}
	return append(badges, b)
}

func (b *Badge) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, ok := ParseBadge(s)
	if !ok {
		return fmt.Errorf("unknown badge %q", s)
	}
	*b = parsed
	return nil
}
