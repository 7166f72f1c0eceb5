package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/petfolk/pawmart/internal/domain/order"
)

// Config holds gateway parameters for the provider-redirect flow. The flow
// is a placeholder: it produces a signed redirect URL in the shape real
// gateways use, without talking to any provider.
type Config struct {
	GatewayURL string
	ReturnURL  string
	Provider   string
	Secret     []byte
}

// Service builds signed payment URLs and processes gateway callbacks.
type Service struct {
	cfg    Config
	repo   Repository
	orders order.Store
	now    func() time.Time
}

// NewService creates a payment Service.
func NewService(cfg Config, repo Repository, orders order.Store) *Service {
	return &Service{cfg: cfg, repo: repo, orders: orders, now: time.Now}
}

// CreatePaymentURL records a pending payment for the order and returns the
// signed gateway redirect URL for it.
func (s *Service) CreatePaymentURL(ctx context.Context, orderID string) (string, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if o.PaymentStatus == order.PaymentPaid {
		return "", ErrOrderAlreadyPaid
	}

	p := &Payment{
		ID:       uuid.New().String(),
		OrderID:  o.ID,
		TxnRef:   uuid.New().String(),
		Provider: s.cfg.Provider,
		Amount:   o.FinalAmount,
		Status:   StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return "", errors.Wrap(err, "create payment")
	}

	params := url.Values{}
	params.Set("amount", o.FinalAmount.StringFixed(2))
	params.Set("order_ref", o.ID)
	params.Set("txn_ref", p.TxnRef)
	params.Set("created", s.now().UTC().Format("20060102150405"))
	params.Set("return_url", s.cfg.ReturnURL)
	params.Set("signature", s.sign(params))

	return s.cfg.GatewayURL + "?" + params.Encode(), nil
}

// HandleCallback verifies the gateway callback signature and settles the
// payment: resp_code "00" marks it (and the order) paid, anything else
// failed.
func (s *Service) HandleCallback(ctx context.Context, params url.Values) (*Payment, error) {
	given := params.Get("signature")
	if given == "" || !hmac.Equal([]byte(given), []byte(s.sign(params))) {
		return nil, ErrBadSignature
	}

	p, err := s.repo.GetByTxnRef(ctx, params.Get("txn_ref"))
	if err != nil {
		return nil, err
	}

	status := StatusFailed
	orderStatus := order.PaymentFailed
	if params.Get("resp_code") == "00" {
		status = StatusSuccess
		orderStatus = order.PaymentPaid
	}

	if err := s.repo.UpdateStatus(ctx, p.ID, status); err != nil {
		return nil, errors.Wrap(err, "update payment status")
	}
	if err := s.orders.SetPaymentStatus(ctx, p.OrderID, orderStatus); err != nil {
		return nil, errors.Wrap(err, "update order payment status")
	}
	p.Status = status
	return p, nil
}

// sign computes an HMAC-SHA256 hex digest over the sorted key=value pairs of
// params, excluding the signature parameter itself.
func (s *Service) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "signature" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params.Get(k))
	}

	mac := hmac.New(sha256.New, s.cfg.Secret)
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}
