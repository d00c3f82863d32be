// Package shopify is the remote tier of the product source chain: a
// minimal Shopify Storefront GraphQL client plus the transform into the
// canonical product shape.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"axm-storefront/internal/model"
	"axm-storefront/internal/transport"
)

const (
	// DefaultAPIVersion is the Storefront API version the queries target.
	DefaultAPIVersion = "2024-01"

	// DefaultPageSize is how many products the list query requests.
	DefaultPageSize = 50

	tokenHeader = "X-Shopify-Storefront-Access-Token"
	userAgent   = "AXM-Storefront/1.0"

	// maxResponseSize caps a GraphQL response body.
	maxResponseSize = 8 << 20
)

// Config holds Storefront API settings.
type Config struct {
	Domain     string // e.g. "axm-store.myshopify.com"
	Token      string // Storefront access token
	APIVersion string // default DefaultAPIVersion
	PageSize   int    // default DefaultPageSize

	// Endpoint overrides the URL derived from Domain and APIVersion.
	Endpoint string

	// HTTPClient overrides the fingerprinting client from internal/transport.
	HTTPClient *http.Client
}

// Client talks to the Storefront GraphQL endpoint.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	pageSize   int
}

// NewClient creates a Storefront API client. A client without a token is
// valid but every call fails with model.ErrNotConfigured, which lets the
// source chain skip the tier without network I/O.
func NewClient(cfg Config) *Client {
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	endpoint := cfg.Endpoint
	if endpoint == "" && cfg.Domain != "" {
		domain := strings.TrimPrefix(strings.TrimPrefix(cfg.Domain, "https://"), "http://")
		endpoint = fmt.Sprintf("https://%s/api/%s/graphql.json", strings.TrimSuffix(domain, "/"), version)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = transport.NewClient(transport.Options{Fingerprint: true})
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		token:      cfg.Token,
		pageSize:   pageSize,
	}
}

// Configured reports whether the client has an endpoint and token.
func (c *Client) Configured() bool {
	return c.endpoint != "" && c.token != ""
}

// GetProducts fetches the first page of products.
func (c *Client) GetProducts(ctx context.Context) ([]ShopifyProduct, error) {
	var data productsData
	if err := c.query(ctx, productsQuery, map[string]any{"first": c.pageSize}, &data); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	products := make([]ShopifyProduct, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		products = append(products, edge.Node)
	}
	return products, nil
}

// GetProductByHandle fetches one product with all variants and options.
func (c *Client) GetProductByHandle(ctx context.Context, handle string) (*ShopifyProduct, error) {
	var data productByHandleData
	if err := c.query(ctx, productByHandleQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, fmt.Errorf("getting product %q: %w", handle, err)
	}
	if data.ProductByHandle == nil {
		return nil, model.NewNotFoundError("product")
	}
	return data.ProductByHandle, nil
}

// query executes one GraphQL request and decodes response data into result.
func (c *Client) query(ctx context.Context, query string, variables map[string]any, result any) error {
	if !c.Configured() {
		return model.ErrNotConfigured
	}

	body, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.NewUpstreamError("Shopify", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return model.NewUpstreamError("Shopify", fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, respBody)
	}

	var envelope graphQLResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return model.NewUpstreamError("Shopify", fmt.Errorf("parsing response: %w", err))
	}
	if len(envelope.Errors) > 0 {
		return model.NewUpstreamError("Shopify", fmt.Errorf("graphql: %s", envelope.Errors[0].Message))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return model.NewUpstreamError("Shopify", fmt.Errorf("response has no data"))
	}

	if err := json.Unmarshal(envelope.Data, result); err != nil {
		return model.NewUpstreamError("Shopify", fmt.Errorf("decoding data: %w", err))
	}
	return nil
}

// parseError maps a non-2xx Storefront response to model.APIError.
func parseError(statusCode int, body []byte) error {
	var envelope graphQLResponse
	json.Unmarshal(body, &envelope) // best effort

	msg := ""
	if len(envelope.Errors) > 0 {
		msg = envelope.Errors[0].Message
	}

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return model.NewUnauthorizedError("Shopify storefront token rejected")
	case http.StatusNotFound:
		return model.NewNotFoundError("storefront")
	case http.StatusTooManyRequests:
		return model.NewRateLimitError("Shopify")
	default:
		return model.NewUpstreamError("Shopify", fmt.Errorf("status %d: %s", statusCode, msg))
	}
}
