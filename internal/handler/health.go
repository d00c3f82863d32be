package handler

import (
	"net/http"

	"axm-storefront/internal/catalog"
)

type healthResponse struct {
	Status  string       `json:"status"`
	Catalog catalog.Info `json:"catalog"`
}

// handleHealth reports liveness and the state of the catalog cache. It
// never triggers a resolution.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Catalog: h.catalog.Info()})
}
