package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/petfolk/pawmart/internal/domain/order"
	"github.com/petfolk/pawmart/pkg/metrics"
)

type orderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	Status          order.Status        `json:"status"`
	PaymentStatus   order.PaymentStatus `json:"payment_status"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	ShippingFee     decimal.Decimal     `json:"shipping_fee"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	FinalAmount     decimal.Decimal     `json:"final_amount"`
	VoucherCode     string              `json:"voucher_code,omitempty"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []orderItemResponse `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = orderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			TotalPrice:  it.TotalPrice,
		}
	}
	return orderResponse{
		ID:              o.ID,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
		ShippingFee:     o.ShippingFee,
		DiscountAmount:  o.DiscountAmount,
		FinalAmount:     o.FinalAmount,
		VoucherCode:     o.VoucherCode,
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt,
	}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	orders, err := h.orders.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	respondData(w, http.StatusOK, out)
}

// checkout places an order from an explicit item list.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
		ShippingAddress string `json:"shipping_address"`
		VoucherCode     string `json:"voucher_code"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines := make([]order.LineInput, len(req.Items))
	for i, it := range req.Items {
		lines[i] = order.LineInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	claims := claimsFrom(r.Context())
	o, err := h.orders.Checkout(r.Context(), order.CheckoutRequest{
		UserID:          claims.UserID,
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		VoucherCode:     req.VoucherCode,
	})
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	metrics.OrdersPlaced.Inc()
	respondData(w, http.StatusCreated, toOrderResponse(o))
}

// checkoutCart converts the user's current cart into an order. The cart rows
// are deleted in the order transaction and the cart cache dropped after.
func (h *Handler) checkoutCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress string `json:"shipping_address"`
		VoucherCode     string `json:"voucher_code"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	claims := claimsFrom(r.Context())
	c, err := h.carts.Get(r.Context(), claims.UserID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	lines := make([]order.LineInput, len(c.Items))
	for i, it := range c.Items {
		lines[i] = order.LineInput{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	o, err := h.orders.Checkout(r.Context(), order.CheckoutRequest{
		UserID:          claims.UserID,
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		VoucherCode:     req.VoucherCode,
		FromCart:        true,
	})
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	h.carts.Invalidate(r.Context(), claims.UserID)

	metrics.OrdersPlaced.Inc()
	respondData(w, http.StatusCreated, toOrderResponse(o))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
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
	respondData(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
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

	o, err = h.orders.Cancel(r.Context(), o.ID)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}

	metrics.OrdersCancelled.Inc()
	respondData(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status order.Status `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch req.Status {
	case order.StatusPending, order.StatusConfirmed, order.StatusShipped,
		order.StatusDelivered, order.StatusCancelled:
	default:
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	if req.Status == order.StatusCancelled {
		metrics.OrdersCancelled.Inc()
	}
	respondData(w, http.StatusOK, toOrderResponse(o))
}
