package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/petfolk/pawmart/internal/domain/voucher"
)

type voucherResponse struct {
	Code           string               `json:"code"`
	DiscountType   voucher.DiscountType `json:"discount_type"`
	Value          decimal.Decimal      `json:"value"`
	MinOrderAmount decimal.Decimal      `json:"min_order_amount"`
	Description    string               `json:"description,omitempty"`
	ValidFrom      *time.Time           `json:"valid_from,omitempty"`
	ValidUntil     *time.Time           `json:"valid_until,omitempty"`
	MaxUses        int                  `json:"max_uses"`
	Uses           int                  `json:"uses"`
}

func toVoucherResponse(v *voucher.Rule) voucherResponse {
	return voucherResponse{
		Code:           v.Code,
		DiscountType:   v.DiscountType,
		Value:          v.Value,
		MinOrderAmount: v.MinOrderAmount,
		Description:    v.Description,
		ValidFrom:      v.ValidFrom,
		ValidUntil:     v.ValidUntil,
		MaxUses:        v.MaxUses,
		Uses:           v.Uses,
	}
}

func (h *Handler) listVouchers(w http.ResponseWriter, r *http.Request) {
	rules, err := h.vouchers.List(r.Context())
	if err != nil {
		respondDomainError(r, w, err)
		return
	}
	out := make([]voucherResponse, len(rules))
	for i := range rules {
		out[i] = toVoucherResponse(&rules[i])
	}
	respondData(w, http.StatusOK, out)
}

func (h *Handler) createVoucher(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code           string          `json:"code"`
		DiscountType   string          `json:"discount_type"`
		Value          decimal.Decimal `json:"value"`
		MinOrderAmount decimal.Decimal `json:"min_order_amount"`
		Description    string          `json:"description"`
		ValidFrom      *time.Time      `json:"valid_from"`
		ValidUntil     *time.Time      `json:"valid_until"`
		MaxUses        int             `json:"max_uses"`
	}
	if err := decode(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	dt := voucher.DiscountType(req.DiscountType)
	if dt != voucher.DiscountPercentage && dt != voucher.DiscountFixed {
		respondError(w, http.StatusBadRequest, "discount_type must be percentage or fixed")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "code required")
		return
	}

	rule := &voucher.Rule{
		Code:           req.Code,
		DiscountType:   dt,
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		Description:    req.Description,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		MaxUses:        req.MaxUses,
	}
	if err := h.vouchers.Create(r.Context(), rule); err != nil {
		respondDomainError(r, w, err)
		return
	}
	respondData(w, http.StatusCreated, toVoucherResponse(rule))
}
