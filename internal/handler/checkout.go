package handler

import (
	"net/http"

	"axm-storefront/internal/middleware"
)

// handleCheckout generates an order id with WhatsApp and UPI links for the
// session's cart. The cart itself is left untouched.
// POST /checkout
func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	links, err := h.checkoutLinks(ctx, middleware.SessionFromContext(ctx))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, links)
}
