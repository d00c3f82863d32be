package shopify

import "encoding/json"

// graphQLRequest is the POST body of every Storefront API call.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse is the envelope of every Storefront API response. A
// populated Errors array means failure regardless of HTTP status.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError is one entry of the top-level errors array.
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type productsData struct {
	Products struct {
		Edges []struct {
			Node ShopifyProduct `json:"node"`
		} `json:"edges"`
	} `json:"products"`
}

type productByHandleData struct {
	ProductByHandle *ShopifyProduct `json:"productByHandle"`
}

// ShopifyProduct mirrors the product node selected by the list and
// by-handle queries. Fields only requested by one query are optional.
type ShopifyProduct struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Handle      string     `json:"handle"`
	Description string     `json:"description"`
	ProductType string     `json:"productType"`
	Vendor      string     `json:"vendor,omitempty"`
	Tags        []string   `json:"tags"`
	PriceRange  PriceRange `json:"priceRange"`
	Images      struct {
		Edges []ImageEdge `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []VariantEdge `json:"edges"`
	} `json:"variants"`
	Options []ShopifyOption `json:"options,omitempty"`
}

// ImageEdge wraps an image node in a connection.
type ImageEdge struct {
	Node ShopifyImage `json:"node"`
}

// VariantEdge wraps a variant node in a connection.
type VariantEdge struct {
	Node ShopifyVariant `json:"node"`
}

// PriceRange holds the min/max variant prices.
type PriceRange struct {
	MinVariantPrice MoneyV2  `json:"minVariantPrice"`
	MaxVariantPrice *MoneyV2 `json:"maxVariantPrice,omitempty"`
}

// MoneyV2 is Shopify's decimal-string money type.
type MoneyV2 struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// ShopifyImage is one product image.
type ShopifyImage struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// ShopifyVariant is one purchasable variant.
type ShopifyVariant struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	AvailableForSale  bool             `json:"availableForSale"`
	QuantityAvailable *int             `json:"quantityAvailable,omitempty"`
	Price             MoneyV2          `json:"price"`
	CompareAtPrice    *MoneyV2         `json:"compareAtPrice,omitempty"`
	SelectedOptions   []SelectedOption `json:"selectedOptions,omitempty"`
}

// SelectedOption is a variant's value for one option dimension.
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ShopifyOption is a product-level option dimension such as Size.
type ShopifyOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}
