package handler

import (
	"net/http"

	"axm-storefront/internal/filter"
	"axm-storefront/internal/model"
)

type productsResponse struct {
	Products []model.Product `json:"products"`
	Count    int             `json:"count"`
}

// handleListProducts lists the catalog, optionally filtered.
// GET /products?category=&filter=&max_price=
func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.listProducts(r.Context(), ProductQuery{
		Category: q.Get("category"),
		Filter:   q.Get("filter"),
		MaxPrice: q.Get("max_price"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, productsResponse{Products: products, Count: len(products)})
}

// handleGetProduct returns one product by id or handle.
// GET /products/{id}
func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Lookup(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

// handleCategories lists the categories present in the catalog.
// GET /categories
func (h *Handler) handleCategories(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, categoriesResponse{
		Categories: filter.Categories(h.catalog.Get(r.Context())),
	})
}
