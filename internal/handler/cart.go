package handler

import (
	"log/slog"
	"net/http"

	"axm-storefront/internal/middleware"
)

// handleGetCart returns the session's cart with totals.
// GET /cart
func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	h.writeJSON(w, http.StatusOK, h.carts.Cart(r.Context(), session).View())
}

// handleAddItem adds a product to the cart, merging with an existing line
// for the same variant.
// POST /cart/items
func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	view, err := h.addItem(ctx, middleware.SessionFromContext(ctx), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// handleUpdateItem sets a line's quantity.
// PATCH /cart/items/{id}
func (h *Handler) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lineID := r.PathValue("id")

	var req UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "updating cart item",
		slog.String("line_id", lineID),
		slog.Int("quantity", req.Quantity),
	)

	view, err := h.updateItem(ctx, middleware.SessionFromContext(ctx), lineID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

// handleRemoveItem drops a line. Removing an absent line succeeds.
// DELETE /cart/items/{id}
func (h *Handler) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view := h.removeItem(ctx, middleware.SessionFromContext(ctx), r.PathValue("id"))
	h.writeJSON(w, http.StatusOK, view)
}

// handleClearCart empties the cart.
// DELETE /cart
func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.writeJSON(w, http.StatusOK, h.clearCart(ctx, middleware.SessionFromContext(ctx)))
}

// handleReplaceCart sets the cart to the given lines.
// PUT /cart
func (h *Handler) handleReplaceCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReplaceCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	view, err := h.replaceCart(ctx, middleware.SessionFromContext(ctx), req.Items)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}
