package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	c, err := h.carts.Get(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, c)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	if err := h.carts.AddItem(r.Context(), claims.UserID, req.ProductID, req.Quantity); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusCreated, "item added")
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	if err := h.carts.UpdateQuantity(r.Context(), claims.UserID, chi.URLParam(r, "productID"), req.Quantity); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "quantity updated")
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := h.carts.RemoveItem(r.Context(), claims.UserID, chi.URLParam(r, "productID")); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "item removed")
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	if err := h.carts.Clear(r.Context(), claims.UserID); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondMessage(w, http.StatusOK, "cart cleared")
}
