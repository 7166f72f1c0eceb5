package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/petfolk/pawmart/internal/domain/appointment"
	"github.com/petfolk/pawmart/internal/domain/blog"
	"github.com/petfolk/pawmart/internal/domain/cart"
	"github.com/petfolk/pawmart/internal/domain/chat"
	"github.com/petfolk/pawmart/internal/domain/order"
	"github.com/petfolk/pawmart/internal/domain/payment"
	"github.com/petfolk/pawmart/internal/domain/pet"
	"github.com/petfolk/pawmart/internal/domain/product"
	"github.com/petfolk/pawmart/internal/domain/subscription"
	"github.com/petfolk/pawmart/internal/domain/user"
	"github.com/petfolk/pawmart/internal/domain/voucher"
)

// envelope is the uniform response body of every API endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}

// respondDomainError maps domain errors to HTTP statuses. Anything it does
// not recognise is a 500 and gets logged with its cause chain.
func respondDomainError(r *http.Request, w http.ResponseWriter, err error) {
	switch status := domainStatus(err); status {
	case http.StatusInternalServerError:
		zctx.From(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path), zap.Error(err))
		respondError(w, status, "internal server error")
	default:
		respondError(w, status, err.Error())
	}
}

func domainStatus(err error) int {
	var (
		invalidQuantity *order.InvalidQuantityError
		productMissing  *order.ProductNotFoundError
		inactive        *order.ProductInactiveError
		outOfStock      *order.InsufficientStockError
		badTransition   *order.InvalidTransitionError
		slotConflict    *appointment.ConflictError
	)

	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, pet.ErrNotOwner),
		errors.Is(err, chat.ErrNotParticipant):
		return http.StatusForbidden

	case errors.Is(err, user.ErrNotFound),
		errors.Is(err, pet.ErrNotFound),
		errors.Is(err, pet.ErrRecordNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, appointment.ErrNotFound),
		errors.Is(err, appointment.ErrBranchNotFound),
		errors.Is(err, payment.ErrNotFound),
		errors.Is(err, subscription.ErrNotFound),
		errors.Is(err, subscription.ErrPlanNotFound),
		errors.Is(err, blog.ErrNotFound),
		errors.Is(err, chat.ErrConversationNotFound),
		errors.As(err, &productMissing):
		return http.StatusNotFound

	case errors.Is(err, user.ErrWeakPassword),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, blog.ErrSlugTaken),
		errors.Is(err, pet.ErrEmptyName),
		errors.Is(err, product.ErrEmptyName),
		errors.Is(err, product.ErrNegativePrice),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, appointment.ErrInvalidTimeRange),
		errors.Is(err, voucher.ErrInvalidVoucher),
		errors.Is(err, voucher.ErrVoucherExpired),
		errors.Is(err, voucher.ErrUsageLimitReached),
		errors.Is(err, voucher.ErrMinOrderNotMet),
		errors.Is(err, payment.ErrOrderAlreadyPaid),
		errors.Is(err, payment.ErrBadSignature),
		errors.Is(err, subscription.ErrNotActive),
		errors.Is(err, blog.ErrEmptyTitle),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.As(err, &invalidQuantity),
		errors.As(err, &inactive),
		errors.As(err, &outOfStock),
		errors.As(err, &slotConflict),
		errors.As(err, &badTransition):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decode reads a JSON request body into dst, limiting it to 1 MiB.
func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}
