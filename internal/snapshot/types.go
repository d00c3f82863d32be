package snapshot

import (
	"encoding/json"
	"strconv"
	"strings"

	"axm-storefront/internal/model"
)

// rawProduct is one record of a static snapshot file. Snapshots were
// hand-maintained across storefront versions, so most fields accept
// several spellings and types.
type rawProduct struct {
	ID             model.ProductID `json:"id"`
	Handle         string          `json:"handle"`
	Name           string          `json:"name"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	ProductType    string          `json:"productType"`
	Price          amount          `json:"price"`
	CompareAtPrice amount          `json:"compareAtPrice"`
	OriginalPrice  amount          `json:"originalPrice"`
	Currency       string          `json:"currency"`
	Images         []string        `json:"images"`
	Image          string          `json:"image"`
	Badges         []string        `json:"badges"`
	Tags           []string        `json:"tags"`
	Stock          model.Stock     `json:"stock"`
	Colors         []string        `json:"colors"`
	Sizes          []string        `json:"sizes"`
	Vendor         string          `json:"vendor"`
}

// amount decodes a major-unit price written as a number or a string.
type amount struct {
	money model.Money
	set   bool
}

func (a *amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*a = amount{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.TrimPrefix(s, "₹"))
		if s == "" {
			*a = amount{}
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// An unreadable price drops the record, not the whole file.
		*a = amount{}
		return nil
	}
	*a = amount{money: model.FromMajor(f), set: true}
	return nil
}
