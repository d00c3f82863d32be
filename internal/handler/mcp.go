// MCP transport for the storefront using the official MCP Go SDK.
// Exposes catalog browsing, cart edits and checkout handoff as MCP tools.
package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"axm-storefront/internal/cart"
	"axm-storefront/internal/checkout"
	"axm-storefront/internal/filter"
	"axm-storefront/internal/middleware"
	"axm-storefront/internal/model"
)

// === MCP Tool Input/Output Types ===
// Cart tools take an optional session naming the cart, the same id the
// REST surface reads from the Storefront-Session header.

// SessionInput names the cart for tools that take nothing else.
type SessionInput struct {
	Session string `json:"session,omitempty" jsonschema:"cart session id; omit for the default cart"`
}

// GetProductInput is the input schema for get_product tool.
type GetProductInput struct {
	ID string `json:"id" jsonschema:"product id or handle,required"`
}

// AddToCartInput is the input schema for add_to_cart tool.
type AddToCartInput struct {
	Session   string `json:"session,omitempty" jsonschema:"cart session id; omit for the default cart"`
	ProductID string `json:"product_id" jsonschema:"product id or handle,required"`
	Size      string `json:"size,omitempty" jsonschema:"selected size"`
	Color     string `json:"color,omitempty" jsonschema:"selected color"`
	Quantity  *int   `json:"quantity,omitempty" jsonschema:"units to add (default 1)"`
}

// UpdateCartItemInput is the input schema for update_cart_item tool.
type UpdateCartItemInput struct {
	Session  string `json:"session,omitempty" jsonschema:"cart session id; omit for the default cart"`
	LineID   string `json:"line_id" jsonschema:"cart line id,required"`
	Quantity int    `json:"quantity" jsonschema:"new quantity; 0 removes the line,required"`
}

// RemoveCartItemInput is the input schema for remove_cart_item tool.
type RemoveCartItemInput struct {
	Session string `json:"session,omitempty" jsonschema:"cart session id; omit for the default cart"`
	LineID string `json:"line_id" jsonschema:"cart line id,required"`
}

// ReplaceCartInput is the input schema for replace_cart tool.
type ReplaceCartInput struct {
	Session string           `json:"session,omitempty" jsonschema:"cart session id; omit for the default cart"`
	Items   []AddItemRequest `json:"items" jsonschema:"complete desired cart lines; an empty list clears the cart,required"`
}

// ProductList is the output of list_products.
type ProductList struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

// CategoryList is the output of list_categories.
type CategoryList struct {
	Categories []string `json:"categories"`
}

// NewMCPServer creates an MCP server with storefront tools registered.
// The server exposes the same operations as the REST API but via MCP protocol.
func (h *Handler) NewMCPServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "axm-storefront",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: "AXM storefront. Browse the catalog, build a cart, " +
				"then call checkout_links to get WhatsApp and UPI order links. Prices are in INR.",
		},
	)

	// Catalog
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List products, optionally filtered by category, collection filter and maximum price.",
	}, h.mcpListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get a single product by id or handle.",
	}, h.mcpGetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_categories",
		Description: "List the categories present in the catalog.",
	}, h.mcpListCategories)

	// Cart
	mcp.AddTool(server, &mcp.Tool{
		Name:        "view_cart",
		Description: "Show the cart lines and totals.",
	}, h.mcpViewCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_to_cart",
		Description: "Add a product to the cart. Adding the same size and color again increases the quantity.",
	}, h.mcpAddToCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_cart_item",
		Description: "Set the quantity of a cart line. A quantity of 0 removes it.",
	}, h.mcpUpdateCartItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_cart_item",
		Description: "Remove a line from the cart.",
	}, h.mcpRemoveCartItem)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "replace_cart",
		Description: "Set the whole cart at once. Lines already in the cart keep their price; only the difference is applied.",
	}, h.mcpReplaceCart)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_cart",
		Description: "Remove every line from the cart.",
	}, h.mcpClearCart)

	// Checkout handoff
	mcp.AddTool(server, &mcp.Tool{
		Name:        "checkout_links",
		Description: "Generate an order id, a WhatsApp message link and a UPI payment link for the cart.",
	}, h.mcpCheckoutLinks)

	return server
}

// NewMCPHandler returns an HTTP handler for the MCP endpoint.
// Mount this at /mcp on your mux.
func (h *Handler) NewMCPHandler() http.Handler {
	server := h.NewMCPServer()
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server { return server },
		nil,
	)
}

// === Tool Handlers ===

func (h *Handler) mcpListProducts(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ProductQuery,
) (*mcp.CallToolResult, ProductList, error) {
	products, err := h.listProducts(ctx, input)
	if err != nil {
		return nil, ProductList{}, h.mcpError(err)
	}
	return nil, ProductList{Products: products, Count: len(products)}, nil
}

func (h *Handler) mcpGetProduct(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetProductInput,
) (*mcp.CallToolResult, *model.Product, error) {
	p, err := h.catalog.Lookup(ctx, input.ID)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, p, nil
}

func (h *Handler) mcpListCategories(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input struct{},
) (*mcp.CallToolResult, CategoryList, error) {
	return nil, CategoryList{Categories: filter.Categories(h.catalog.Get(ctx))}, nil
}

func (h *Handler) mcpViewCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, cart.View, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, cart.View{}, err
	}
	return nil, h.carts.Cart(ctx, session).View(), nil
}

func (h *Handler) mcpAddToCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddToCartInput,
) (*mcp.CallToolResult, cart.View, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, cart.View{}, err
	}
	view, err := h.addItem(ctx, session, AddItemRequest{
		ProductID: input.ProductID,
		Size:      input.Size,
		Color:     input.Color,
		Quantity:  input.Quantity,
	})
	if err != nil {
		return nil, cart.View{}, h.mcpError(err)
	}
	return nil, view, nil
}

func (h *Handler) mcpUpdateCartItem(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateCartItemInput,
) (*mcp.CallToolResult, cart.View, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, cart.View{}, err
	}
	if input.LineID == "" {
		return nil, cart.View{}, fmt.Errorf("line_id is required")
	}
	view, err := h.updateItem(ctx, session, input.LineID, input.Quantity)
	if err != nil {
		return nil, cart.View{}, h.mcpError(err)
	}
	return nil, view, nil
}

func (h *Handler) mcpRemoveCartItem(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input RemoveCartItemInput,
) (*mcp.CallToolResult, cart.View, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, cart.View{}, err
	}
	if input.LineID == "" {
		return nil, cart.View{}, fmt.Errorf("line_id is required")
	}
	return nil, h.removeItem(ctx, session, input.LineID), nil
}

func (h *Handler) mcpReplaceCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ReplaceCartInput,
) (*mcp.CallToolResult, cart.View, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, cart.View{}, err
	}
	view, err := h.replaceCart(ctx, session, input.Items)
	if err != nil {
		return nil, cart.View{}, h.mcpError(err)
	}
	return nil, view, nil
}

func (h *Handler) mcpClearCart(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, cart.View, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, cart.View{}, err
	}
	return nil, h.clearCart(ctx, session), nil
}

func (h *Handler) mcpCheckoutLinks(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input SessionInput,
) (*mcp.CallToolResult, *checkout.Links, error) {
	session, err := mcpSession(input.Session)
	if err != nil {
		return nil, nil, err
	}
	links, err := h.checkoutLinks(ctx, session)
	if err != nil {
		return nil, nil, h.mcpError(err)
	}
	return nil, links, nil
}

// mcpSession validates the optional session id of a tool call.
func mcpSession(session string) (string, error) {
	if session == "" {
		return "", nil
	}
	if err := middleware.ValidateSessionID(session); err != nil {
		return "", fmt.Errorf("INVALID_SESSION: %v", err)
	}
	return session, nil
}

// mcpError converts domain errors to MCP-friendly errors.
func (h *Handler) mcpError(err error) error {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}
	// Don't leak internal error details
	h.logger.Error("mcp internal error", "error", err.Error())
	return fmt.Errorf("internal error")
}
