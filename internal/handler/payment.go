package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/petfolk/pawmart/internal/domain/order"
	"github.com/petfolk/pawmart/pkg/metrics"
)

// createPaymentURL returns a signed gateway redirect URL for the order.
func (h *Handler) createPaymentURL(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	claims := claimsFrom(r.Context())
	if o.UserID != claims.UserID && !claims.Staff() {
		respondError(w, http.StatusNotFound, order.ErrNotFound.Error())
		return
	}

	url, err := h.payments.CreatePaymentURL(r.Context(), o.ID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	metrics.PaymentURLsIssued.Inc()
	respondData(w, http.StatusOK, map[string]string{"payment_url": url})
}

// paymentCallback settles a payment from the gateway's signed redirect.
func (h *Handler) paymentCallback(w http.ResponseWriter, r *http.Request) {
	p, err := h.payments.HandleCallback(r.Context(), r.URL.Query())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{
		"order_id": p.OrderID,
		"status":   string(p.Status),
	})
}
