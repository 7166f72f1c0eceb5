package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/petfolk/pawmart/internal/domain/product"
)

type productResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Stock       int              `json:"stock"`
	Active      bool             `json:"active"`
	CreatedAt   time.Time        `json:"created_at"`
}

func toProductResponse(p *product.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		Stock:       p.Stock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
	}
}

type productRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	Stock       int              `json:"stock"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	// Inactive items stay hidden from the public catalog; staff opt in
	// with ?all=1. The route is public, so the bearer token is parsed
	// here when one is present.
	includeInactive := false
	if r.URL.Query().Get("all") == "1" {
		if token, ok := cutBearer(r); ok {
			if c, err := h.issuer.Parse(token); err == nil && c.Staff() {
				includeInactive = true
			}
		}
	}

	products, err := h.products.List(r.Context(), includeInactive)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = toProductResponse(&products[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &product.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, toProductResponse(p))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	existing, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	p := &product.Product{
		ID:          existing.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		SalePrice:   req.SalePrice,
		Stock:       req.Stock,
		Active:      existing.Active,
	}
	if err := h.products.Update(r.Context(), p); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, toProductResponse(p))
}

func (h *Handler) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "product deactivated")
}
